package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Indicators
const (
	SuccessMark = "✓"
	ErrorMark   = "✗"
	WarningMark = "!"
	PendingMark = "○"
)

// ConfigureColor decides whether output to out is colored and sets up
// lipgloss and pterm accordingly. Color is off when noColor is set, when
// NO_COLOR is present in the environment, or when out is not a terminal.
func ConfigureColor(out *os.File, noColor bool) bool {
	enabled := !noColor && os.Getenv("NO_COLOR") == "" && IsTerminal(out)
	if enabled {
		lipgloss.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
		pterm.EnableColor()
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
		pterm.DisableColor()
	}
	return enabled
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
