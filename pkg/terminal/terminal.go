// Package terminal decides whether styled output should be produced at all.
package terminal

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Mode controls colorization: detect, force on, or force off.
type Mode int

const (
	// ModeAuto colors output only when it goes to a capable terminal.
	ModeAuto Mode = iota
	// ModeAlways colors output unconditionally.
	ModeAlways
	// ModeNever disables coloring.
	ModeNever
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseMode parses a --color flag or config value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return ModeAuto, nil
	case "always", "on":
		return ModeAlways, nil
	case "never", "off":
		return ModeNever, nil
	default:
		return ModeAuto, fmt.Errorf("unknown color mode: %s", s)
	}
}

// ColorEnabled decides once per run whether the colorizer should style
// output written to out. In auto mode it follows NO_COLOR, whether out is
// a terminal, and the terminal's color profile.
func ColorEnabled(mode Mode, out *os.File) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}
