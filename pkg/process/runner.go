// Package process runs the real program and delivers its standard output
// one line at a time.
package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tintwrap/tintwrap/pkg/logging"
)

// wrappedEnvMarker guards against the wrapper spawning itself.
const wrappedEnvMarker = "TINTWRAP_WRAPPED"

// LineHandler receives one output line with the terminator stripped.
type LineHandler func(line string)

// Runner manages the wrapped process. By default the child's stdout is a
// pipe, so it sees a non-terminal and emits plain, re-colorable text;
// stdin and stderr pass through untouched. PTY mode runs the child under a
// pseudo-terminal instead, for programs that block-buffer when piped.
type Runner struct {
	usePTY   bool
	cmd      *exec.Cmd
	pty      *ptySession
	exitCode int
	readErr  error
	mu       sync.Mutex
	sigChan  chan os.Signal
	done     chan struct{}
	scanWG   sync.WaitGroup
	logger   zerolog.Logger
}

// NewRunner creates a runner. usePTY selects PTY mode.
func NewRunner(usePTY bool) *Runner {
	return &Runner{
		usePTY: usePTY,
		done:   make(chan struct{}),
		logger: logging.Component("process"),
	}
}

// Start launches the program and begins delivering output lines to onLine.
func (r *Runner) Start(command string, args []string, onLine LineHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return fmt.Errorf("process already started")
	}

	// Check for self-wrap
	if os.Getenv(wrappedEnvMarker) == "1" {
		return fmt.Errorf("already wrapped by tintwrap")
	}

	cmd := exec.Command(command, args...)
	cmd.Env = append(os.Environ(), wrappedEnvMarker+"=1")

	var output io.Reader
	if r.usePTY {
		session, err := startPTY(cmd, r.logger)
		if err != nil {
			return err
		}
		r.pty = session
		output = session
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stderr = os.Stderr
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("failed to pipe stdout: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start %s: %w", command, err)
		}
		output = stdout
	}
	r.cmd = cmd

	r.scanWG.Add(1)
	go r.scanLines(output, onLine)

	r.setupSignalForwarding()

	return nil
}

// scanLines reads output line by line until EOF or a read error. Already
// delivered lines stay delivered either way.
func (r *Runner) scanLines(output io.Reader, onLine LineHandler) {
	defer r.scanWG.Done()

	scanner := bufio.NewScanner(output)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if r.usePTY {
			// A PTY terminates lines with \r\n.
			line = strings.TrimSuffix(line, "\r")
		}
		onLine(line)
	}

	if err := scanner.Err(); err != nil {
		r.mu.Lock()
		r.readErr = fmt.Errorf("error reading output: %w", err)
		r.mu.Unlock()
	}
}

// Wait waits for the output stream to drain and the process to exit. The
// returned error is the child's exit error, if any, otherwise any stream
// read error.
func (r *Runner) Wait() error {
	if r.cmd == nil {
		return fmt.Errorf("process not started")
	}

	// All reads must finish before exec.Cmd.Wait closes the pipe.
	r.scanWG.Wait()

	err := r.cmd.Wait()

	r.mu.Lock()
	if r.cmd.ProcessState != nil {
		r.exitCode = r.cmd.ProcessState.ExitCode()
		// A signal-killed child reports -1; use the shell convention of
		// 128 plus the signal number instead.
		if r.exitCode < 0 {
			if ws, ok := r.cmd.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				r.exitCode = 128 + int(ws.Signal())
			}
		}
	}
	readErr := r.readErr
	r.mu.Unlock()

	if r.pty != nil {
		r.pty.Close()
	}

	close(r.done)
	r.cleanupSignals()

	if err != nil {
		return err
	}
	return readErr
}

// ExitCode returns the exit code of the process.
func (r *Runner) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode
}

// Stop gracefully stops the wrapped process.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}

	// Send SIGTERM first for graceful shutdown
	if err := r.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if err != os.ErrProcessDone {
			return r.cmd.Process.Kill()
		}
	}

	return nil
}

// setupSignalForwarding sets up signal forwarding to the child process.
func (r *Runner) setupSignalForwarding() {
	r.sigChan = make(chan os.Signal, 1)
	signal.Notify(r.sigChan,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT,
	)

	go r.forwardSignals()
}

// forwardSignals forwards signals to the child process.
func (r *Runner) forwardSignals() {
	for {
		select {
		case sig := <-r.sigChan:
			if r.cmd != nil && r.cmd.Process != nil {
				if err := r.cmd.Process.Signal(sig); err != nil {
					// Process might have already exited
					if err != os.ErrProcessDone {
						r.logger.Debug().Err(err).Msg("signal forward error")
					}
				}
			}
		case <-r.done:
			return
		}
	}
}

// cleanupSignals stops signal forwarding.
func (r *Runner) cleanupSignals() {
	if r.sigChan != nil {
		signal.Stop(r.sigChan)
		close(r.sigChan)
	}
}
