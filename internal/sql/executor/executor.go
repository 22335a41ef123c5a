package executor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/pagedb/internal/logging"
	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/sql/parser"
	"github.com/tuannm99/pagedb/internal/table"
)

var (
	// validation
	ErrNegativeID    = errors.New("executor: id must be positive")
	ErrStringTooLong = errors.New("executor: string too long")

	// execution
	ErrTableFull = table.ErrTableFull
)

// tableOps is a small seam for unit-testing Executor without a real file.
type tableOps interface {
	Append(r record.Row) error
	Full() bool
	Scan(fn func(idx uint32, row record.Row) error) error
}

var _ tableOps = (*table.Table)(nil)

// Executor validates and applies statements against the table.
type Executor struct {
	Table tableOps
	log   *slog.Logger
}

func NewExecutor(tbl *table.Table) *Executor {
	return &Executor{Table: tbl, log: logging.Logger()}
}

// NewExecutorForTest allows injecting a fake table.
func NewExecutorForTest(tbl tableOps) *Executor {
	return &Executor{Table: tbl, log: logging.Logger()}
}

// WithLogger returns a copy of e logging through l.
func (e *Executor) WithLogger(l *slog.Logger) *Executor {
	cp := *e
	cp.log = l
	return &cp
}

// ExecLine is the top-level entry: one input line -> Result.
func (e *Executor) ExecLine(line string) (*Result, error) {
	stmt, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	default:
		return nil, fmt.Errorf("executor: unsupported statement type %T", stmt)
	}
}

// Validate checks a candidate row in a fixed order and stops at the first
// violation: id sign, then string lengths (in bytes).
func Validate(r record.Row) error {
	if r.ID <= 0 {
		return ErrNegativeID
	}
	if len(r.Username) > record.UsernameMaxLen || len(r.Email) > record.EmailMaxLen {
		return ErrStringTooLong
	}
	return nil
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	if err := Validate(s.Row); err != nil {
		return nil, err
	}
	if e.Table.Full() {
		return nil, ErrTableFull
	}
	if err := e.Table.Append(s.Row); err != nil {
		e.log.Error("insert failed", "id", s.Row.ID, "err", err)
		return nil, err
	}
	e.log.Debug("row inserted", "id", s.Row.ID)
	return &Result{AffectedRows: 1}, nil
}

func (e *Executor) execSelect(_ *parser.SelectStmt) (*Result, error) {
	res := &Result{}
	err := e.Table.Scan(func(_ uint32, row record.Row) error {
		res.Rows = append(res.Rows, row)
		return nil
	})
	if err != nil {
		e.log.Error("select failed", "err", err)
		return nil, err
	}
	return res, nil
}
