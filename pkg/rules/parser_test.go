package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_ValidRules(t *testing.T) {
	src := `# highlight rules
[fg:red, bg:black]
ERROR.*

[fg:green]
OK$
`
	set, diags := Parse(src)

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(set))
	}

	if set[0].Foreground != Red {
		t.Errorf("rule 0: expected red foreground, got %v", set[0].Foreground)
	}
	if set[0].Background == nil || *set[0].Background != Black {
		t.Errorf("rule 0: expected black background, got %v", set[0].Background)
	}
	if !set[0].Pattern.MatchString("ERROR: disk full") {
		t.Error("rule 0: pattern should match ERROR lines")
	}

	if set[1].Foreground != Green {
		t.Errorf("rule 1: expected green foreground, got %v", set[1].Foreground)
	}
	if set[1].Background != nil {
		t.Errorf("rule 1: expected no background, got %v", *set[1].Background)
	}
}

func TestParse_Diagnostics(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantRules int
		wantDiags []string
	}{
		{
			name:      "empty input",
			src:       "",
			wantRules: 0,
		},
		{
			name:      "comments and blanks only",
			src:       "# one\n\n   \n# two\n",
			wantRules: 0,
		},
		{
			name:      "pattern before any declaration",
			src:       "ERROR.*\n",
			wantRules: 0,
			wantDiags: []string{"pattern without preceding color"},
		},
		{
			name:      "missing fg",
			src:       "[bg:black]\nERROR.*\n",
			wantRules: 0,
			wantDiags: []string{"missing fg", "pattern without preceding color"},
		},
		{
			name:      "invalid regex skipped, later rule survives",
			src:       "[fg:red]\n[unclosed\n[fg:green]\nOK$\n",
			wantRules: 1,
			wantDiags: []string{"invalid regex"},
		},
		{
			name:      "declaration without pattern at EOF",
			src:       "[fg:red]\n",
			wantRules: 0,
		},
		{
			name:      "unknown key ignored",
			src:       "[fg:red, blink:yes]\nERR\n",
			wantRules: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, diags := Parse(tt.src)

			if len(set) != tt.wantRules {
				t.Errorf("expected %d rules, got %d", tt.wantRules, len(set))
			}
			if len(diags) != len(tt.wantDiags) {
				t.Fatalf("expected %d diagnostics, got %d: %v", len(tt.wantDiags), len(diags), diags)
			}
			for i, want := range tt.wantDiags {
				if !strings.Contains(diags[i].Message, want) {
					t.Errorf("diagnostic %d: expected %q in %q", i, want, diags[i].Message)
				}
			}
		})
	}
}

func TestParse_DiagnosticLineNumbers(t *testing.T) {
	src := "# comment\n\nERROR.*\n[fg:red]\n[bad(\n"
	_, diags := Parse(src)

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if diags[0].Line != 3 {
		t.Errorf("expected first diagnostic on line 3, got %d", diags[0].Line)
	}
	if diags[1].Line != 5 {
		t.Errorf("expected second diagnostic on line 5, got %d", diags[1].Line)
	}
}

func TestParse_NextContentLineIsAlwaysThePattern(t *testing.T) {
	// A second declaration right after the first is consumed as the
	// pattern, bracket syntax and all.
	// "[fg:green]" compiles as a regex (a character class), so the first
	// rule uses it as its pattern and "OK" is left dangling.
	src := "[fg:red]\n[fg:green]\nOK\n"
	set, diags := Parse(src)

	if len(set) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(set))
	}
	if set[0].Foreground != Red {
		t.Errorf("expected red foreground, got %v", set[0].Foreground)
	}
	if set[0].Pattern.String() != "[fg:green]" {
		t.Errorf("expected the second declaration as pattern, got %q", set[0].Pattern.String())
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "pattern without preceding color") {
		t.Errorf("expected a dangling-pattern diagnostic for OK, got %v", diags)
	}
}

func TestParse_CommentsBetweenDeclarationAndPattern(t *testing.T) {
	// Blank and comment lines are skipped everywhere, including between a
	// declaration and its pattern.
	src := "[fg:cyan]\n# the pattern follows\n\nWARN\n"
	set, diags := Parse(src)

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(set) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(set))
	}
	if set[0].Pattern.String() != "WARN" {
		t.Errorf("expected pattern WARN, got %q", set[0].Pattern.String())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "grep")
	if err := os.WriteFile(path, []byte("[fg:yellow]\nTODO\n"), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	set, diags := Load(path)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(set) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(set))
	}

	// A missing rule file means no highlighting, not an error.
	set, diags = Load(filepath.Join(dir, "does-not-exist"))
	if len(set) != 0 || len(diags) != 0 {
		t.Errorf("expected empty result for missing file, got %d rules, %d diagnostics", len(set), len(diags))
	}
}
