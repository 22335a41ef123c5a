package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/pagedb/internal/record"
)

var (
	ErrSyntax                = errors.New("parser: syntax error")
	ErrUnrecognizedStatement = errors.New("parser: unrecognized statement")
)

const (
	KeywordInsert = "insert"
	KeywordSelect = "select"

	insertArgs = 3
)

// Parse turns one input line into a Statement. Keywords are matched on the
// leading whitespace-separated token, case-sensitively. Parsing is purely
// syntactic: field bounds and id sign are checked by the executor.
func Parse(line string) (Statement, error) {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnrecognizedStatement)
	}

	switch toks[0] {
	case KeywordInsert:
		return parseInsert(toks[1:])
	case KeywordSelect:
		return parseSelect(toks[1:])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStatement, toks[0])
	}
}

func parseInsert(args []string) (Statement, error) {
	if len(args) != insertArgs {
		return nil, fmt.Errorf("%w: insert wants %d arguments, got %d", ErrSyntax, insertArgs, len(args))
	}

	id, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id %q", ErrSyntax, args[0])
	}

	return &InsertStmt{
		Row: record.Row{
			ID:       int32(id),
			Username: args[1],
			Email:    args[2],
		},
	}, nil
}

func parseSelect(args []string) (Statement, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: select takes no arguments", ErrSyntax)
	}
	return &SelectStmt{}, nil
}
