package table

import "github.com/tuannm99/pagedb/internal/record"

// Cursor walks rows [0, end) where end is the row count when the cursor
// was created. Every cursor has its own position.
//
//	c := tbl.Cursor()
//	for c.Next() {
//		fmt.Println(c.Row())
//	}
//	if err := c.Err(); err != nil { ... }
type Cursor struct {
	t      *Table
	rowNum uint32
	end    uint32

	row record.Row
	err error
}

// Next loads the next row. It returns false at the end of the table or on
// error; check Err afterwards.
func (c *Cursor) Next() bool {
	if c.err != nil || c.rowNum >= c.end {
		return false
	}
	r, err := c.t.rowAt(c.rowNum)
	if err != nil {
		c.err = err
		return false
	}
	c.row = r
	c.rowNum++
	return true
}

// Row returns the row loaded by the last successful Next.
func (c *Cursor) Row() record.Row { return c.row }

// Index returns the logical index of Row.
func (c *Cursor) Index() uint32 { return c.rowNum - 1 }

func (c *Cursor) Err() error { return c.err }

// EndOfTable reports whether the cursor has consumed every row.
func (c *Cursor) EndOfTable() bool { return c.rowNum >= c.end }
