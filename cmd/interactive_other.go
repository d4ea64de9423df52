//go:build !windows

package main

// enableVT is only needed on Windows consoles.
func enableVT() {}
