//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT turns on virtual terminal processing so arrow keys arrive as
// ANSI sequences and the chart colours render in the Windows console.
func enableVT() {
	for _, f := range []struct {
		file *os.File
		mode uint32
	}{
		{os.Stdin, windows.ENABLE_VIRTUAL_TERMINAL_INPUT},
		{os.Stdout, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING},
	} {
		h := windows.Handle(f.file.Fd())
		var mode uint32
		if windows.GetConsoleMode(h, &mode) == nil {
			windows.SetConsoleMode(h, mode|f.mode)
		}
	}
}
