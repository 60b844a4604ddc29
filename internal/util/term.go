package util

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTerminalWidth = 120

/*
   references:
   - https://no-color.org/
   - https://github.com/sitkevij/no_color
*/

// IsTerminal checks if stdout is a terminal using go-isatty
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ShouldUseColors determines if coloured output should be used
func ShouldUseColors() bool {
	if noColor := os.Getenv("NO_COLOR"); noColor != "" {
		return false
	}

	if forceColor := os.Getenv("FORCE_COLOR"); forceColor != "" {
		return forceColor != "0"
	}

	if pamColors := os.Getenv("PAMGATE_FORCE_COLORS"); pamColors != "" {
		return strings.ToLower(pamColors) == "true"
	}

	return IsTerminal()
}

// TerminalWidth reports the stdout column count, or a wide default when
// stdout is not a terminal (logs piped to a collector)
func TerminalWidth() int {
	if !IsTerminal() {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
