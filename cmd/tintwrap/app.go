package main

import (
	"bufio"
	"os"

	"github.com/tintwrap/tintwrap/pkg/colorize"
	"github.com/tintwrap/tintwrap/pkg/config"
	"github.com/tintwrap/tintwrap/pkg/process"
	"github.com/tintwrap/tintwrap/pkg/rules"
	"github.com/tintwrap/tintwrap/pkg/terminal"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config    *config.Config
	Colorizer *colorize.Colorizer
	Runner    *process.Runner
}

// NewDependencies creates all dependencies with the given configuration
// and rule set.
func NewDependencies(cfg *config.Config, set rules.RuleSet) *Dependencies {
	enabled := terminal.ColorEnabled(cfg.ColorMode(), os.Stdout)

	return &Dependencies{
		Config:    cfg,
		Colorizer: colorize.New(set, colorize.NewANSIStyler(), enabled),
		Runner:    process.NewRunner(cfg.PTY),
	}
}

// Application ties the wrapped process to the colorizing pipeline.
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run starts the wrapped program and colorizes its output line by line
// until the stream ends, then waits for the process to exit.
func (a *Application) Run(command string, args []string) error {
	// The runner delivers lines from a single goroutine; flush per line so
	// output stays interactive.
	out := bufio.NewWriter(os.Stdout)
	emit := func(line string) {
		_, _ = out.WriteString(a.deps.Colorizer.Apply(line))
		_ = out.WriteByte('\n')
		_ = out.Flush()
	}

	if err := a.deps.Runner.Start(command, args, emit); err != nil {
		return err
	}

	return a.deps.Runner.Wait()
}

// Stop gracefully stops the wrapped process.
func (a *Application) Stop() error {
	return a.deps.Runner.Stop()
}

// ExitCode returns the exit code of the wrapped process
func (a *Application) ExitCode() int {
	return a.deps.Runner.ExitCode()
}
