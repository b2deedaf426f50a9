// Package output provides termenv outputs with consistent color profile handling
// and the status line rendering shared by the CLI commands.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/markup/internal/ui/style"
)

// ColorProfile returns the color profile for the current environment.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Colorize renders s in the given palette color.
func Colorize(out *termenv.Output, s string, color lipgloss.Color) string {
	return out.String(s).Foreground(termenv.RGBColor(string(color))).String()
}

// Status renders a one-line verdict for a validated file.
// cached marks verdicts that were served from the response cache.
func Status(out *termenv.Output, name string, valid, cached bool) string {
	icon, color := style.Check, style.Green
	if !valid {
		icon, color = style.Cross, style.Red
	}

	line := Colorize(out, icon, color) + " " + name
	if cached {
		line += " " + Colorize(out, style.Tilde+"cached", style.Slate)
	}
	return line
}
