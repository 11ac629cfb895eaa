package output

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AutoColor disables color when forced off, when NO_COLOR is set, or when
// stdout is not a terminal.
func AutoColor(force bool) {
	if force || os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		SetNoColor(true)
	}
}

// TerminalWidth returns the column count of f, or fallback when f is not a
// terminal or its size cannot be read.
func TerminalWidth(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
