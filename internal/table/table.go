package table

import (
	"errors"
	"fmt"

	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/storage"
)

var ErrTableFull = errors.New("table: table full")

type Option func(*Table)

// WithRowCache makes reads go through c before decoding a slot.
func WithRowCache(c RowCache) Option {
	return func(t *Table) { t.cache = c }
}

// PageStore is the slot storage a Table appends into. *storage.Pager is the
// production implementation; tests swap in failing stores.
type PageStore interface {
	SlotFor(rowIndex uint32) ([]byte, error)
	WriteSlot(rowIndex uint32) error
	Capacity() uint32
	Flush(rowCount uint32) error
	Close() error
}

var _ PageStore = (*storage.Pager)(nil)

// Table is the single append-only users table. Rows live contiguously by
// insertion order at logical indices [0, rowCount).
type Table struct {
	pager    PageStore
	rowCount uint32
	cache    RowCache
}

// New wraps an open pager. rowCount is the number of rows already stored,
// normally pager.RowCountOnDisk(). The table takes ownership of the pager.
func New(pager PageStore, rowCount uint32, opts ...Option) *Table {
	t := &Table{pager: pager, rowCount: rowCount}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) RowCount() uint32 { return t.rowCount }

func (t *Table) Capacity() uint32 { return t.pager.Capacity() }

func (t *Table) Full() bool { return t.rowCount >= t.pager.Capacity() }

// Append stores r at index rowCount and persists it before returning.
// rowCount only moves once the slot is durably written.
func (t *Table) Append(r record.Row) error {
	if t.Full() {
		return ErrTableFull
	}

	slot, err := t.pager.SlotFor(t.rowCount)
	if err != nil {
		return err
	}
	record.EncodeRow(r, slot)

	if err := t.pager.WriteSlot(t.rowCount); err != nil {
		return fmt.Errorf("table: append row %d: %w", t.rowCount, err)
	}
	t.rowCount++
	return nil
}

func (t *Table) rowAt(idx uint32) (record.Row, error) {
	if t.cache != nil {
		if r, ok := t.cache.Get(idx); ok {
			return r, nil
		}
	}
	slot, err := t.pager.SlotFor(idx)
	if err != nil {
		return record.Row{}, err
	}
	r := record.DecodeRow(slot)
	if t.cache != nil {
		t.cache.Set(idx, r)
	}
	return r, nil
}

// Cursor starts a new traversal over the rows present right now.
func (t *Table) Cursor() *Cursor {
	return &Cursor{t: t, end: t.rowCount}
}

// Scan calls fn for every row in insertion order. It stops at the first
// error returned by fn.
func (t *Table) Scan(fn func(idx uint32, row record.Row) error) error {
	c := t.Cursor()
	for c.Next() {
		if err := fn(c.Index(), c.Row()); err != nil {
			return err
		}
	}
	return c.Err()
}

func (t *Table) Flush() error {
	return t.pager.Flush(t.rowCount)
}

// Close flushes and releases the pager and the row cache.
func (t *Table) Close() error {
	flushErr := t.Flush()
	if t.cache != nil {
		t.cache.Close()
	}
	closeErr := t.pager.Close()
	return errors.Join(flushErr, closeErr)
}
