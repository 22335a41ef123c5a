package executor

import (
	"strings"

	"github.com/tuannm99/pagedb/internal/record"
)

// Result is what a successful statement returns to the caller.
type Result struct {
	// For select, in insertion order.
	Rows []record.Row

	// For insert.
	AffectedRows int64
}

// String renders the result as the REPL prints it: one "<id> <username>
// <email>" line per row followed by "Executed.".
func (r *Result) String() string {
	var b strings.Builder
	for _, row := range r.Rows {
		b.WriteString(row.String())
		b.WriteByte('\n')
	}
	b.WriteString(MsgExecuted)
	return b.String()
}
