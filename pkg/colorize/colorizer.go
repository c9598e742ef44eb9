// Package colorize turns a line of program output into a styled line by
// matching it against an ordered rule set and wrapping the winning spans
// in terminal colors.
package colorize

import (
	"sort"
	"strings"

	"github.com/tintwrap/tintwrap/pkg/rules"
)

// Colorizer applies one RuleSet to lines of text. It holds no per-line
// state; Apply is a pure function of the line, so a Colorizer is safe for
// concurrent use.
type Colorizer struct {
	rules   rules.RuleSet
	styler  Styler
	enabled bool
}

// New creates a Colorizer. When enabled is false every line passes through
// unchanged.
func New(set rules.RuleSet, styler Styler, enabled bool) *Colorizer {
	return &Colorizer{
		rules:   set,
		styler:  styler,
		enabled: enabled,
	}
}

// match is one occurrence of a rule's pattern, as a half-open byte
// interval [start, end) within the line.
type match struct {
	start, end int
	rule       int // index into the RuleSet
}

// Apply returns the line with every winning match wrapped in its rule's
// style. With styling disabled or no rules the input is returned as is.
func (c *Colorizer) Apply(line string) string {
	if !c.enabled || len(c.rules) == 0 {
		return line
	}

	matches := c.collect(line)
	if len(matches) == 0 {
		return line
	}

	return c.render(line, resolveOverlaps(matches))
}

// collect finds every occurrence of every rule's pattern in the line,
// using the standard leftmost non-overlapping scan per pattern.
func (c *Colorizer) collect(line string) []match {
	var matches []match
	for i, rule := range c.rules {
		for _, loc := range rule.Pattern.FindAllStringIndex(line, -1) {
			matches = append(matches, match{start: loc[0], end: loc[1], rule: i})
		}
	}
	return matches
}

// resolveOverlaps reduces the collected matches to a pairwise-disjoint set
// by greedy interval selection: sort by start ascending, longer span first
// on equal start, earlier rule first on equal start and length, then keep
// each match whose start is at or past the end of the last kept one.
func resolveOverlaps(matches []match) []match {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if la, lb := a.end-a.start, b.end-b.start; la != lb {
			return la > lb
		}
		return a.rule < b.rule
	})

	accepted := matches[:0]
	lastEnd := 0
	for _, m := range matches {
		if m.start < lastEnd {
			continue
		}
		accepted = append(accepted, m)
		lastEnd = m.end
	}
	return accepted
}

// render walks the line once, copying unmatched stretches verbatim and
// styling each accepted span. The accepted matches are disjoint and sorted
// by start.
func (c *Colorizer) render(line string, accepted []match) string {
	var out strings.Builder
	out.Grow(len(line) + 16*len(accepted))

	cursor := 0
	for _, m := range accepted {
		out.WriteString(line[cursor:m.start])
		rule := c.rules[m.rule]
		out.WriteString(c.styler.Style(line[m.start:m.end], rule.Foreground, rule.Background))
		cursor = m.end
	}
	out.WriteString(line[cursor:])

	return out.String()
}
