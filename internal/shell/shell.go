// Package shell runs the interactive rello session: one command line at a
// time against a single in-memory board until the user exits.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/rello/internal/command"
	"github.com/mesh-intelligence/rello/pkg/types"
)

// Prompt is printed before every line read.
const Prompt = "rello> "

// Shell reads command lines from in and writes results to out.
type Shell struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

// New creates a shell. The logger receives per-command debug records tagged
// with a session ID.
func New(in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	return &Shell{in: in, out: out, logger: logger}
}

// Run executes lines against b until an exit command, end of input, or ctx
// is cancelled, and reports whether b changed. Parse errors and lookup
// failures are printed and the loop continues; only read errors stop it
// early.
func (s *Shell) Run(ctx context.Context, b *types.Board) (bool, error) {
	logger := s.logger.With("session", uuid.NewString())
	logger.Debug("shell started")

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, s.in)

	fmt.Fprintln(s.out, `rello shell, type "help" for commands`)
	changed := false
	for {
		fmt.Fprint(s.out, Prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			logger.Debug("shell interrupted", "changed", changed)
			return changed, nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out)
			if err := <-readErr; err != nil {
				return changed, fmt.Errorf("reading input: %w", err)
			}
			logger.Debug("shell input closed", "changed", changed)
			return changed, nil
		}

		cmd, err := command.ParseLine(line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if cmd == nil {
			continue
		}
		if _, isExit := cmd.(command.Exit); isExit {
			logger.Debug("shell exited", "changed", changed)
			return changed, nil
		}

		mutated, err := command.Execute(b, cmd, s.out)
		if err != nil {
			logger.Debug("command failed", "command", cmd.Name(), "err", err)
			fmt.Fprintln(s.out, command.Message(err))
			continue
		}
		logger.Debug("command applied", "command", cmd.Name(), "changed", mutated)
		changed = changed || mutated
	}
}

// readLines scans r on its own goroutine so Run can stop on ctx while a read
// is blocked. The lines channel is closed at end of input; the final scanner
// error (or nil) is then sent on the error channel.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
