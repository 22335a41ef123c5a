package table

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tuannm99/pagedb/internal/record"
)

// RowCache holds decoded rows by logical index. Rows are immutable once
// appended, so entries never go stale.
type RowCache interface {
	Get(idx uint32) (record.Row, bool)
	Set(idx uint32, r record.Row)
	Close()
}

var _ RowCache = (*RistrettoRowCache)(nil)

type RistrettoRowCache struct {
	c *ristretto.Cache[uint64, record.Row]
}

// NewRowCache builds a cache holding up to maxRows decoded rows.
func NewRowCache(maxRows int64) (*RistrettoRowCache, error) {
	if maxRows <= 0 {
		return nil, fmt.Errorf("table: row cache size must be positive, got %d", maxRows)
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, record.Row]{
		NumCounters: maxRows * 10,
		MaxCost:     maxRows,
		BufferItems: 64,
		// cost is counted in rows
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("table: new row cache: %w", err)
	}
	return &RistrettoRowCache{c: c}, nil
}

func (rc *RistrettoRowCache) Get(idx uint32) (record.Row, bool) {
	return rc.c.Get(uint64(idx))
}

// Set is best effort: ristretto may drop the write under contention.
func (rc *RistrettoRowCache) Set(idx uint32, r record.Row) {
	rc.c.Set(uint64(idx), r, 1)
}

// Wait blocks until buffered writes are applied.
func (rc *RistrettoRowCache) Wait() {
	rc.c.Wait()
}

func (rc *RistrettoRowCache) Close() {
	rc.c.Close()
}
