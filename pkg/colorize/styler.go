package colorize

import (
	"github.com/muesli/termenv"

	"github.com/tintwrap/tintwrap/pkg/rules"
)

// Styler wraps text in terminal formatting. The colorizer only depends on
// this interface so the matching and overlap logic stays independent of how
// escape sequences are produced.
type Styler interface {
	Style(text string, fg rules.Color, bg *rules.Color) string
}

// ANSIStyler renders styles with termenv against the basic 16-color ANSI
// palette, which is all the rule grammar can name.
type ANSIStyler struct {
	profile termenv.Profile
}

// NewANSIStyler creates a styler for the ANSI palette.
func NewANSIStyler() *ANSIStyler {
	return &ANSIStyler{profile: termenv.ANSI}
}

// Style implements Styler.
func (s *ANSIStyler) Style(text string, fg rules.Color, bg *rules.Color) string {
	styled := s.profile.String(text).Foreground(ansiColor(fg))
	if bg != nil {
		styled = styled.Background(ansiColor(*bg))
	}
	return styled.String()
}

func ansiColor(c rules.Color) termenv.Color {
	switch c {
	case rules.Black:
		return termenv.ANSIBlack
	case rules.Red:
		return termenv.ANSIRed
	case rules.Green:
		return termenv.ANSIGreen
	case rules.Yellow:
		return termenv.ANSIYellow
	case rules.Blue:
		return termenv.ANSIBlue
	case rules.Magenta:
		return termenv.ANSIMagenta
	case rules.Cyan:
		return termenv.ANSICyan
	case rules.White:
		return termenv.ANSIWhite
	case rules.BrightRed:
		return termenv.ANSIBrightRed
	case rules.BrightGreen:
		return termenv.ANSIBrightGreen
	case rules.BrightYellow:
		return termenv.ANSIBrightYellow
	case rules.BrightBlue:
		return termenv.ANSIBrightBlue
	case rules.BrightMagenta:
		return termenv.ANSIBrightMagenta
	case rules.BrightCyan:
		return termenv.ANSIBrightCyan
	case rules.BrightWhite:
		return termenv.ANSIBrightWhite
	default:
		return termenv.ANSIWhite
	}
}
