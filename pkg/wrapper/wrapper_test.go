package wrapper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProgramName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare name", in: "grep", want: "grep"},
		{name: "absolute path", in: "/usr/bin/grep", want: "grep"},
		{name: "relative path", in: "./bin/kubectl", want: "kubectl"},
		{name: "root", in: "/", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProgramName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ProgramName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuleFile(t *testing.T) {
	got := RuleFile("/etc/tintwrap/wrappers", "grep")
	want := filepath.Join("/etc/tintwrap/wrappers", "grep")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindReal(t *testing.T) {
	binDir := t.TempDir()
	wrapDir := t.TempDir()

	writeExecutable := func(dir, name string, mode os.FileMode) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
		return path
	}

	realPath := writeExecutable(binDir, "mytool", 0o755)
	writeExecutable(wrapDir, "mytool", 0o755)
	writeExecutable(binDir, "notexec", 0o644)

	// The wrappers dir comes first on PATH, like a real wrapper setup.
	t.Setenv("PATH", wrapDir+string(os.PathListSeparator)+binDir)

	got, err := FindReal("mytool", wrapDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != realPath {
		t.Errorf("expected %q, got %q", realPath, got)
	}

	if _, err := FindReal("notexec", wrapDir); err == nil {
		t.Error("expected error for file without execute bit")
	}

	if _, err := FindReal("missing", wrapDir); err == nil {
		t.Error("expected error for program not on PATH")
	}
}

func TestFindReal_EmptyPath(t *testing.T) {
	t.Setenv("PATH", "")

	if _, err := FindReal("anything", t.TempDir()); err == nil {
		t.Error("expected error for empty PATH")
	}
}
