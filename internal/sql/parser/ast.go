package parser

import "github.com/tuannm99/pagedb/internal/record"

// Statement is one parsed command. There are exactly two shapes.
type Statement interface {
	stmtNode()
}

// ----- INSERT -----
// insert <id> <username> <email>
type InsertStmt struct {
	Row record.Row
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----
// select
type SelectStmt struct{}

func (*SelectStmt) stmtNode() {}
