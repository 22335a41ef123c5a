package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// IsTerminal reports whether stdin is attached to a terminal, in which case
// RunInteractive gives line editing and history.
func IsTerminal() bool {
	return readline.IsTerminal(int(os.Stdin.Fd()))
}

// RunInteractive is Run with readline editing. historyFile may be empty.
// Ctrl+C discards the current line; Ctrl+D ends the session.
func (s *Session) RunInteractive(ctx context.Context, historyFile string) error {
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			return fmt.Errorf("repl: history dir: %w", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       metaExit,
	})
	if err != nil {
		return fmt.Errorf("repl: readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// unblock Readline on shutdown signals
	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	s.Out = rl.Stdout()
	s.log.Info("interactive session started", "history", historyFile)
	defer s.log.Info("session ended")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("repl: read input: %w", err)
		}

		out, exit := s.HandleLine(line)
		if exit {
			return nil
		}
		if _, err := fmt.Fprintln(s.Out, out); err != nil {
			return fmt.Errorf("repl: write output: %w", err)
		}
	}
}
