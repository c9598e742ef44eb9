package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
)

// ptySession runs the child under a pseudo-terminal and exposes its output
// as a reader. The session keeps the PTY sized like the real terminal and
// forwards stdin to the child.
type ptySession struct {
	file   *os.File
	stop   chan struct{}
	wg     sync.WaitGroup
	logger zerolog.Logger
}

// startPTY starts cmd under a new PTY.
func startPTY(cmd *exec.Cmd, logger zerolog.Logger) (*ptySession, error) {
	file, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &ptySession{
		file:   file,
		stop:   make(chan struct{}),
		logger: logger,
	}

	if err := s.copyTerminalSize(); err != nil {
		// Some environments don't have a terminal; the child still runs.
		s.logger.Debug().Err(err).Msg("failed to copy terminal size")
	}

	s.wg.Add(1)
	go s.monitorTerminalSize()

	// Forward stdin so interactive children stay usable.
	go func() {
		_, _ = io.Copy(file, os.Stdin)
	}()

	return s, nil
}

// Read reads child output. A read error on a Linux PTY after the child
// exits surfaces as EIO; that is the normal end of stream.
func (s *ptySession) Read(p []byte) (int, error) {
	n, err := s.file.Read(p)
	if err != nil && errors.Is(err, syscall.EIO) {
		return n, io.EOF
	}
	return n, err
}

// Close stops the resize monitor and closes the PTY.
func (s *ptySession) Close() {
	close(s.stop)
	s.wg.Wait()
	_ = s.file.Close()
}

// copyTerminalSize copies the terminal size from stdin to the PTY.
func (s *ptySession) copyTerminalSize() error {
	size, err := pty.GetsizeFull(os.Stdin)
	if err != nil {
		return err
	}

	return pty.Setsize(s.file, size)
}

// monitorTerminalSize resizes the PTY when the real terminal changes size.
func (s *ptySession) monitorTerminalSize() {
	defer s.wg.Done()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			if err := s.copyTerminalSize(); err != nil {
				s.logger.Debug().Err(err).Msg("failed to resize PTY")
			}
		case <-s.stop:
			return
		}
	}
}
