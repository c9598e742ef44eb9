package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// parserState tracks the two-state rule grammar: a style declaration line
// followed by exactly one pattern line.
type parserState int

const (
	stateIdle            parserState = iota // expecting a [fg:...] declaration
	stateAwaitingPattern                    // expecting the pattern for pendingStyle
)

// pendingStyle holds the style of a declaration whose pattern line has not
// arrived yet. A background is only ever pending together with a foreground.
type pendingStyle struct {
	fg Color
	bg *Color
}

// Parse turns rule-file text into an ordered RuleSet. Malformed entries are
// reported as diagnostics and skipped; parsing always reaches the end of the
// input and never fails.
func Parse(src string) (RuleSet, []Diagnostic) {
	var (
		set     RuleSet
		diags   []Diagnostic
		state   parserState
		pending pendingStyle
	)

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNum := i + 1

		if state == stateAwaitingPattern {
			// The very next content line completes the declaration,
			// even if it looks like another declaration.
			re, err := regexp.Compile(line)
			if err != nil {
				diags = append(diags, Diagnostic{
					Line:    lineNum,
					Source:  line,
					Message: fmt.Sprintf("invalid regex: %v", err),
				})
			} else {
				set = append(set, Rule{
					Pattern:    re,
					Foreground: pending.fg,
					Background: pending.bg,
				})
			}
			state = stateIdle
			continue
		}

		spec, ok := stripBrackets(line)
		if !ok {
			diags = append(diags, Diagnostic{
				Line:    lineNum,
				Source:  line,
				Message: "pattern without preceding color",
			})
			continue
		}

		fg, bg, ok := parseStyleSpec(spec)
		if !ok {
			diags = append(diags, Diagnostic{
				Line:    lineNum,
				Source:  line,
				Message: "missing fg: in color declaration",
			})
			continue
		}
		pending = pendingStyle{fg: fg, bg: bg}
		state = stateAwaitingPattern
	}

	return set, diags
}

// Load reads and parses the rule file at path. An unreadable file means no
// highlighting, not an error: the returned RuleSet is empty.
func Load(path string) (RuleSet, []Diagnostic) {
	data, err := os.ReadFile(path) // #nosec G304 -- rule files live in the user's own wrappers dir
	if err != nil {
		return nil, nil
	}
	return Parse(string(data))
}

// stripBrackets unwraps a [spec] declaration line.
func stripBrackets(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", false
	}
	return line[1 : len(line)-1], true
}

// parseStyleSpec reads the comma-separated key:value tokens of a style
// declaration. ok is false when no fg token is present; unknown keys are
// ignored and a repeated key keeps its last value.
func parseStyleSpec(spec string) (fg Color, bg *Color, ok bool) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if name, found := strings.CutPrefix(part, "fg:"); found {
			fg = ParseColor(name)
			ok = true
		} else if name, found := strings.CutPrefix(part, "bg:"); found {
			c := ParseColor(name)
			bg = &c
		}
	}
	if !ok {
		return White, nil, false
	}
	return fg, bg, true
}
