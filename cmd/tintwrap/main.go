package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/tintwrap/tintwrap/pkg/config"
	"github.com/tintwrap/tintwrap/pkg/logging"
	"github.com/tintwrap/tintwrap/pkg/rules"
	"github.com/tintwrap/tintwrap/pkg/terminal"
	"github.com/tintwrap/tintwrap/pkg/wrapper"
)

func main() {
	var (
		configPath string
		colorMode  string
		usePTY     bool
		debug      bool
		help       bool
	)

	// Everything up to the program name is ours; the program name and all
	// that follows passes through to the wrapped program verbatim.
	ourArgs := []string{}
	rest := []string{}

	i := 1 // Skip program name
split:
	for i < len(os.Args) {
		arg := os.Args[i]

		switch {
		case arg == "--config" || arg == "--color":
			ourArgs = append(ourArgs, arg)
			if i+1 < len(os.Args) && !strings.HasPrefix(os.Args[i+1], "-") {
				ourArgs = append(ourArgs, os.Args[i+1])
				i++
			}
		case arg == "--pty" || arg == "--debug" || arg == "--help" || arg == "-h":
			ourArgs = append(ourArgs, arg)
		case strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "--color="):
			ourArgs = append(ourArgs, arg)
		default:
			rest = os.Args[i:]
			break split
		}
		i++
	}

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&colorMode, "color", "", "Color mode: auto, always or never")
	flag.BoolVar(&usePTY, "pty", false, "Run the wrapped program under a pseudo-terminal")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVarP(&help, "help", "h", false, "Show help message")

	if err := flag.CommandLine.Parse(ourArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	if help || len(rest) == 0 {
		printUsage()
		if help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if configPath != "" {
		if err := os.Setenv("TINTWRAP_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override the config file
	if colorMode != "" {
		cfg.Color = colorMode
		if _, err := terminal.ParseMode(cfg.Color); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	if usePTY {
		cfg.PTY = true
	}
	if debug {
		cfg.Debug = true
	}

	logging.Setup(cfg.Debug)
	logger := logging.Component("main")

	program, err := wrapper.ProgramName(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	childArgs := rest[1:]

	realPath, err := wrapper.FindReal(program, cfg.WrappersDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nYou can fix this by:\n")
		fmt.Fprintf(os.Stderr, "1. Ensuring the real %s is in your PATH\n", program)
		fmt.Fprintf(os.Stderr, "2. Keeping the wrappers directory (%s) out of the search\n", cfg.WrappersDir)
		os.Exit(127)
	}

	ruleFile := wrapper.RuleFile(cfg.WrappersDir, program)
	ruleSet := loadRules(ruleFile, logger)

	deps := NewDependencies(cfg, ruleSet)
	app := NewApplication(deps)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if err := app.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping process: %v\n", err)
		}
		// Exit with standard interrupt code
		os.Exit(130)
	}()

	logger.Debug().
		Str("program", program).
		Str("real_path", realPath).
		Int("rules", len(ruleSet)).
		Bool("pty", cfg.PTY).
		Msg("starting wrapped program")

	if err := app.Run(realPath, childArgs); err != nil {
		// An exit error just means a non-zero child exit code
		if _, ok := err.(*exec.ExitError); !ok {
			fmt.Fprintf(os.Stderr, "Error running %s: %v\n", program, err)
		}
	}

	// Exit with the same code as the wrapped process
	os.Exit(app.ExitCode())
}

// loadRules loads the program's rule file and reports every diagnostic. No
// rules is not an error, but it is worth a warning: the output will pass
// through uncolored.
func loadRules(ruleFile string, logger zerolog.Logger) rules.RuleSet {
	ruleSet, diags := rules.Load(ruleFile)
	for _, d := range diags {
		logger.Warn().
			Int("line", d.Line).
			Str("source", d.Source).
			Str("file", ruleFile).
			Msg(d.Message)
	}

	if len(ruleSet) == 0 {
		if _, err := os.Stat(ruleFile); os.IsNotExist(err) {
			logger.Warn().Str("file", ruleFile).Msg("no rule file for program, output passes through uncolored")
		} else {
			logger.Warn().Str("file", ruleFile).Msg("rule file defines no rules, output passes through uncolored")
		}
	}

	return ruleSet
}

func printUsage() {
	fmt.Println("tintwrap - colorize the output of any program with per-program rules")
	fmt.Println()
	fmt.Println("Usage: tintwrap [OPTIONS] PROGRAM [PROGRAM_ARGS...]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Everything after PROGRAM is passed through to it untouched.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  TINTWRAP_CONFIG    Path to config file")
	fmt.Println("  TINTWRAP_WRAPPERS  Directory of per-program rule files")
	fmt.Println("  TINTWRAP_COLOR     Color mode: auto, always or never")
	fmt.Println("  TINTWRAP_PTY       Run the program under a pseudo-terminal (true/false)")
	fmt.Println("  TINTWRAP_DEBUG     Enable debug logging (true/false)")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/tintwrap/config.yaml")
	fmt.Println("Rule files: ~/.config/tintwrap/wrappers/<program>")
}
