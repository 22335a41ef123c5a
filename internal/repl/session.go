package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/tuannm99/pagedb/internal/logging"
	"github.com/tuannm99/pagedb/internal/sql/executor"
)

const (
	DefaultPrompt = "db > "

	metaPrefix = "."
	metaExit   = ".exit"
)

// LineExecutor runs one statement line. Both *engine.Database and
// *executor.Executor satisfy it.
type LineExecutor interface {
	ExecLine(line string) (*executor.Result, error)
}

// Session is one command loop over a database.
type Session struct {
	Exec   LineExecutor
	Prompt string
	Out    io.Writer

	ID  string
	log *slog.Logger
}

func NewSession(exec LineExecutor, out io.Writer) *Session {
	id := ksuid.New().String()
	return &Session{
		Exec:   exec,
		Prompt: DefaultPrompt,
		Out:    out,
		ID:     id,
		log:    logging.WithSession(id),
	}
}

// HandleLine processes one input line and returns the text to print (without
// trailing newline). exit reports that the session should end; output is
// empty in that case.
func (s *Session) HandleLine(line string) (output string, exit bool) {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, metaPrefix) {
		if line == metaExit {
			s.log.Debug("exit requested")
			return "", true
		}
		return fmt.Sprintf("Unrecognized command '%s'.", line), false
	}

	res, err := s.Exec.ExecLine(line)
	if err != nil {
		s.log.Debug("statement rejected", "line", line, "err", err)
		return executor.Message(err), false
	}
	return res.String(), false
}

// Run reads lines from in until ".exit", EOF or ctx is done. The prompt is
// written before every read; statement errors never stop the loop. Lines
// have no length limit.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)

	s.log.Info("session started")
	defer s.log.Info("session ended")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := io.WriteString(s.Out, s.prompt()); err != nil {
			return fmt.Errorf("repl: write prompt: %w", err)
		}

		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("repl: read input: %w", err)
		}
		if line == "" && err != nil {
			return nil
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

func (s *Session) prompt() string {
	if s.Prompt == "" {
		return DefaultPrompt
	}
	return s.Prompt
}
