package executor

import (
	"errors"

	"github.com/tuannm99/pagedb/internal/sql/parser"
)

const (
	MsgExecuted      = "Executed."
	MsgNegativeID    = "ID must be positive."
	MsgStringTooLong = "String too long."
	MsgTableFull     = "Table full."
	MsgSyntax        = "Syntax error. Cannot parse statement."
	MsgUnrecognized  = "Unrecognized statement."
)

// Message maps a statement error to the one-line text shown to the user.
// Anything outside the known taxonomy (storage failures) is reported as
// "Error: <cause>".
func Message(err error) string {
	switch {
	case err == nil:
		return MsgExecuted
	case errors.Is(err, parser.ErrSyntax):
		return MsgSyntax
	case errors.Is(err, parser.ErrUnrecognizedStatement):
		return MsgUnrecognized
	case errors.Is(err, ErrNegativeID):
		return MsgNegativeID
	case errors.Is(err, ErrStringTooLong):
		return MsgStringTooLong
	case errors.Is(err, ErrTableFull):
		return MsgTableFull
	default:
		return "Error: " + err.Error()
	}
}
