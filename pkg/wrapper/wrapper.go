// Package wrapper resolves the wrapped program: its name, its rule file,
// and the real executable hiding behind the wrapper on PATH.
package wrapper

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProgramName derives the wrapped program's name from the first positional
// argument. A path argument is reduced to its basename so rule files and
// PATH lookup use the bare name.
func ProgramName(arg string) (string, error) {
	name := filepath.Base(arg)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("cannot determine program name from %q", arg)
	}
	return name, nil
}

// RuleFile returns the path of the rule file for program.
func RuleFile(wrappersDir, program string) string {
	return filepath.Join(wrappersDir, program)
}

// FindReal searches PATH for program's real executable, skipping the
// wrappers directory and our own binary so the wrapper never re-executes
// itself.
func FindReal(program, wrappersDir string) (string, error) {
	selfPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get our executable path: %w", err)
	}
	selfPath, err = filepath.EvalSymlinks(selfPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve our executable path: %w", err)
	}

	skipDir, err := filepath.Abs(wrappersDir)
	if err != nil {
		skipDir = wrappersDir
	}

	pathEnv := os.Getenv("PATH")
	if pathEnv == "" {
		return "", fmt.Errorf("PATH environment variable is empty")
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		if absDir, err := filepath.Abs(dir); err == nil && absDir == skipDir {
			continue
		}

		candidate := filepath.Join(dir, program)

		info, err := os.Stat(candidate)
		if err != nil {
			continue // Not found in this directory
		}

		if !info.Mode().IsRegular() || info.Mode()&0111 == 0 {
			continue
		}

		// Resolve symlinks to check if it's us
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			continue
		}
		if resolved == selfPath {
			continue
		}

		return candidate, nil
	}

	return "", fmt.Errorf("%s not found in PATH (excluding the tintwrap wrapper)", program)
}
