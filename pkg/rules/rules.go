// Package rules loads per-program highlight rules from their wrapper files.
package rules

import (
	"regexp"
	"strings"
)

// Color is one of the ANSI color names a rule file may reference.
type Color uint8

// The supported color names. Bright variants map to the high-intensity
// ANSI palette.
const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

var colorNames = map[string]Color{
	"black":         Black,
	"red":           Red,
	"green":         Green,
	"yellow":        Yellow,
	"blue":          Blue,
	"magenta":       Magenta,
	"cyan":          Cyan,
	"white":         White,
	"brightred":     BrightRed,
	"brightgreen":   BrightGreen,
	"brightyellow":  BrightYellow,
	"brightblue":    BrightBlue,
	"brightmagenta": BrightMagenta,
	"brightcyan":    BrightCyan,
	"brightwhite":   BrightWhite,
}

// ParseColor maps a color name to its Color value, case-insensitively.
// Unrecognized names fall back to White; a bad color name is never an error.
func ParseColor(name string) Color {
	if c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return White
}

// Rule binds one compiled pattern to a foreground color and an optional
// background color. Rules are built once at load time and never mutated.
type Rule struct {
	Pattern    *regexp.Regexp
	Foreground Color
	Background *Color
}

// RuleSet is the ordered list of rules for one wrapped program. Order is
// the order of appearance in the rule file and decides priority when two
// rules match overlapping spans of equal length.
type RuleSet []Rule

// Diagnostic describes one non-fatal problem found while parsing a rule
// file. The offending rule is skipped; parsing continues.
type Diagnostic struct {
	Line    int    // 1-based line number in the rule file
	Source  string // the offending line, trimmed
	Message string
}
