package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the given file descriptor refers to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd)) //nolint:gosec // G115: fd conversion is safe for file descriptors
}

// TermWidth returns the terminal width in columns, or 80 if it cannot be determined.
func TermWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd)) //nolint:gosec // G115: fd conversion is safe for file descriptors
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Terminal describes f for presenter selection. Width is zero when f is not
// a terminal.
func Terminal(f *os.File) (isTTY bool, width int) {
	if !IsTTY(f.Fd()) {
		return false, 0
	}
	return true, TermWidth(f.Fd())
}
