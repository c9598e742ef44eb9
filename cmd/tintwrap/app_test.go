package main

import (
	"testing"

	"github.com/tintwrap/tintwrap/pkg/config"
	"github.com/tintwrap/tintwrap/pkg/rules"
)

func TestNewDependencies(t *testing.T) {
	cfg := &config.Config{
		WrappersDir: t.TempDir(),
		Color:       "never",
	}
	set, diags := rules.Parse("[fg:red]\nERR\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	deps := NewDependencies(cfg, set)

	if deps.Config != cfg {
		t.Error("expected config to be wired through")
	}
	if deps.Colorizer == nil {
		t.Error("expected a colorizer")
	}
	if deps.Runner == nil {
		t.Error("expected a runner")
	}
}

func TestApplication_RunAndExitCode(t *testing.T) {
	cfg := &config.Config{
		WrappersDir: t.TempDir(),
		Color:       "never",
	}
	app := NewApplication(NewDependencies(cfg, nil))

	if err := app.Run("sh", []string{"-c", "exit 7"}); err == nil {
		t.Error("expected an exit error from the wrapped program")
	}
	if app.ExitCode() != 7 {
		t.Errorf("expected exit code 7, got %d", app.ExitCode())
	}
}
