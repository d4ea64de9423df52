package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	"landshare/internal/shares"
	"landshare/internal/types"
)

const pageSize = 20

// restore leaves raw mode. state is nil once re-entering raw mode failed.
func restore(fd int, state *term.State) {
	if state != nil {
		term.Restore(fd, state)
	}
}

// selectEstate lets the user page through estates with the arrow keys and
// press Enter to see the owner distribution of one. ↑/↓ move within a
// page, ←/→ change pages, Esc or Ctrl-C leaves.
func selectEstate(out io.Writer, records []types.LandRecord) {
	estates := shares.Estates(records)
	if len(estates) == 0 {
		return
	}

	if runtime.GOOS == "windows" {
		enableVT()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not a terminal: show the first estate and stop.
		fmt.Fprintln(out, "(interactive selection not supported on this terminal)")
		renderPie(out, estates[0], shares.Distribution(records, estates[0]))
		return
	}
	defer func() { restore(fd, oldState) }()

	reader := bufio.NewReader(os.Stdin)
	page := 0
	selected := 0
	totalPages := (len(estates) + pageSize - 1) / pageSize

	pageLen := func() int {
		n := len(estates) - page*pageSize
		if n > pageSize {
			n = pageSize
		}
		return n
	}

	redraw := func() {
		// Raw mode: lines need an explicit carriage return.
		fmt.Fprint(out, "\033[H\033[2J")
		start := page * pageSize
		for i := start; i < start+pageLen(); i++ {
			prefix := "  "
			if i-start == selected {
				prefix = "> "
			}
			fmt.Fprintf(out, "%s%-20s | owners: %d\r\n", prefix, estates[i], len(shares.Distribution(records, estates[i])))
		}
		fmt.Fprintf(out, "(↑/↓ navigate, ←/→ page, Enter show chart, Esc quit)  Page %d/%d\r\n", page+1, totalPages)
	}

	up := func() {
		if selected > 0 {
			selected--
			redraw()
		}
	}
	down := func() {
		if selected < pageLen()-1 {
			selected++
			redraw()
		}
	}
	left := func() {
		if page > 0 {
			page--
			selected = 0
			redraw()
		}
	}
	right := func() {
		if page < totalPages-1 {
			page++
			selected = 0
			redraw()
		}
	}
	show := func() bool {
		restore(fd, oldState)
		estate := estates[page*pageSize+selected]
		fmt.Fprintln(out)
		renderPie(out, estate, shares.Distribution(records, estate))

		fmt.Fprint(out, "\n(press Enter to return)")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')

		oldState, err = term.MakeRaw(fd)
		if err != nil {
			oldState = nil
			return false
		}
		if runtime.GOOS == "windows" {
			enableVT()
		}
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return true
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if err != nil {
			return
		}

		// Windows console arrow sequences (0 or 224, then code)
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			switch b2 {
			case 72:
				up()
			case 80:
				down()
			case 75:
				left()
			case 77:
				right()
			}
			continue
		}

		switch b1 {
		case 27: // ESC or ANSI sequence
			if reader.Buffered() == 0 {
				fmt.Fprint(out, "\r\n")
				return
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' || reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A':
				up()
			case 'B':
				down()
			case 'D':
				left()
			case 'C':
				right()
			}
		case '\r', '\n':
			if !show() {
				return
			}
		case 3: // Ctrl-C
			fmt.Fprint(out, "\r\n")
			return
		}
	}
}
