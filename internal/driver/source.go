// Package driver owns everything outside the pure diagnostic pipeline:
// spawning cargo, streaming its stdout into the decoder, carrying the exit
// status, and caching the finished report for replay.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// ErrSourceUnavailable marks the single fatal failure class: the diagnostic
// source could not be started or opened, so there is nothing to process.
var ErrSourceUnavailable = errors.New("diagnostic source unavailable")

// Checker selects which cargo subcommand produces the message stream.
type Checker uint8

const (
	CheckerCheck Checker = iota
	CheckerClippy
)

func (c Checker) String() string {
	if c == CheckerClippy {
		return "clippy"
	}
	return "check"
}

// ParseChecker reads a checker name from config or flags.
func ParseChecker(name string) (Checker, error) {
	switch name {
	case "", "check":
		return CheckerCheck, nil
	case "clippy":
		return CheckerClippy, nil
	}
	return CheckerCheck, fmt.Errorf("unknown checker %q (expected check|clippy)", name)
}

// CargoSource runs `cargo <check|clippy> --message-format json` and exposes
// its stdout as the line source. Stderr carries cargo's human progress
// output; it is drained concurrently and kept for failure reporting.
type CargoSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	eg     *errgroup.Group
}

// NewCargoSource prepares a cargo invocation in dir (empty = cwd) with any
// extra user-supplied arguments appended after the standard ones.
func NewCargoSource(ctx context.Context, checker Checker, dir string, extraArgs []string) *CargoSource {
	args := append([]string{checker.String(), "--message-format", "json"}, extraArgs...)
	cmd := exec.CommandContext(ctx, "cargo", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return &CargoSource{cmd: cmd}
}

// Start spawns cargo and returns the reader of its JSON message stream.
// A spawn failure is the fatal SourceUnavailable case.
func (s *CargoSource) Start() (io.Reader, error) {
	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	stderr, err := s.cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	s.stdout = stdout

	s.eg = &errgroup.Group{}
	s.eg.Go(func() error {
		_, copyErr := io.Copy(&s.stderr, stderr)
		return copyErr
	})
	return stdout, nil
}

// Wait reaps the process and returns its exit code. Called after the stream
// has been fully consumed (or abandoned on interrupt).
func (s *CargoSource) Wait() int {
	if s.eg != nil {
		_ = s.eg.Wait()
	}
	err := s.cmd.Wait()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// Stderr returns whatever cargo wrote to its stderr, for failure hints when
// the stream produced no diagnostics at all.
func (s *CargoSource) Stderr() string {
	return s.stderr.String()
}
