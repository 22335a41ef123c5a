package storage

import (
	"fmt"

	"github.com/tuannm99/pagedb/internal/logging"
	"github.com/tuannm99/pagedb/internal/record"
)

type Options struct {
	PageSize int
	MaxPages int

	// SyncWrites fsyncs the file after every slot write. With it off a
	// successful WriteSlot only reached the OS page cache.
	SyncWrites bool
}

func DefaultOptions() Options {
	return Options{
		PageSize:   DefaultPageSize,
		MaxPages:   DefaultMaxPages,
		SyncWrites: true,
	}
}

// Pager is an arena of fixed-size page buffers indexed by page number.
// Pages are allocated lazily (loaded from disk when the file already holds
// them) and never move or get evicted, so a slot slice handed out by
// SlotFor stays valid until Close.
//
// On disk page n starts at n*PageSize and only used slots are ever
// written, which makes the file length encode the row count.
type Pager struct {
	sm          *StorageManager
	opts        Options
	rowsPerPage uint32

	pages     [][]byte // len == MaxPages, nil == not allocated
	allocated int

	fileLen  int64
	diskRows uint32
	closed   bool
}

// Open opens (or creates) the page file at path.
func Open(path string, opts Options) (*Pager, error) {
	if opts.PageSize < record.RowSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrBadPageSize, opts.PageSize, record.RowSize)
	}
	if opts.MaxPages <= 0 {
		return nil, fmt.Errorf("storage: max pages must be positive, got %d", opts.MaxPages)
	}

	sm, err := OpenStorageManager(path, opts.PageSize)
	if err != nil {
		return nil, err
	}

	p := &Pager{
		sm:          sm,
		opts:        opts,
		rowsPerPage: uint32(opts.PageSize / record.RowSize),
		pages:       make([][]byte, opts.MaxPages),
	}

	size, err := sm.Size()
	if err != nil {
		sm.closeQuietly()
		return nil, fmt.Errorf("get file info: %w", err)
	}

	rows, clean := p.rowsForLength(size)
	if uint64(rows) > uint64(p.Capacity()) {
		sm.closeQuietly()
		return nil, fmt.Errorf("%w: %d > %d", ErrFileTooLarge, rows, p.Capacity())
	}
	if clean != size {
		// A write died mid-slot; the fragment was never acknowledged.
		logging.Logger().Warn("pager: dropping torn tail", "path", path, "size", size, "keep", clean)
		if err := sm.Truncate(clean); err != nil {
			sm.closeQuietly()
			return nil, fmt.Errorf("%w: truncate torn tail: %w", ErrStorageIO, err)
		}
	}

	p.fileLen = clean
	p.diskRows = rows
	return p, nil
}

// rowsForLength derives the row count stored in a file of the given size,
// plus the length of the file with any partial trailing slot removed.
func (p *Pager) rowsForLength(size int64) (rows uint32, clean int64) {
	pageSize := int64(p.opts.PageSize)
	fullPages := size / pageSize
	used := (size % pageSize) / record.RowSize
	if used > int64(p.rowsPerPage) {
		used = int64(p.rowsPerPage)
	}
	rows = uint32(fullPages*int64(p.rowsPerPage) + used)
	clean = fullPages*pageSize + used*record.RowSize
	return rows, clean
}

func (p *Pager) locate(rowIndex uint32) (pageNum, slot uint32) {
	return rowIndex / p.rowsPerPage, rowIndex % p.rowsPerPage
}

// getPage returns the buffer of pageNum, allocating it on first use.
func (p *Pager) getPage(pageNum uint32) ([]byte, error) {
	if p.closed {
		return nil, ErrPagerClosed
	}
	if int(pageNum) >= p.opts.MaxPages {
		return nil, fmt.Errorf("%w: %d >= %d", ErrPageOutOfBounds, pageNum, p.opts.MaxPages)
	}
	if buf := p.pages[pageNum]; buf != nil {
		return buf, nil
	}

	buf := make([]byte, p.opts.PageSize)
	if int64(pageNum)*int64(p.opts.PageSize) < p.fileLen {
		if err := p.sm.ReadPage(pageNum, buf); err != nil {
			return nil, fmt.Errorf("%w: read page %d: %w", ErrStorageIO, pageNum, err)
		}
	}
	p.pages[pageNum] = buf
	p.allocated++
	logging.WithPage(pageNum).Debug("pager: page allocated", "allocated", p.allocated)
	return buf, nil
}

// SlotFor returns the RowSize byte range backing rowIndex. The slice is
// capped so appends cannot spill into the neighbouring slot.
func (p *Pager) SlotFor(rowIndex uint32) ([]byte, error) {
	pageNum, slot := p.locate(rowIndex)
	buf, err := p.getPage(pageNum)
	if err != nil {
		return nil, err
	}
	start := int(slot) * record.RowSize
	end := start + record.RowSize
	return buf[start:end:end], nil
}

// WriteSlot persists the slot of rowIndex. On failure the file is cut
// back to its previous length so no partial row becomes visible.
func (p *Pager) WriteSlot(rowIndex uint32) error {
	data, err := p.SlotFor(rowIndex)
	if err != nil {
		return err
	}
	pageNum, slot := p.locate(rowIndex)
	off := int64(pageNum)*int64(p.opts.PageSize) + int64(slot)*record.RowSize

	if err := p.sm.WriteAt(data, off); err != nil {
		p.rollback()
		return fmt.Errorf("%w: write row %d: %w", ErrStorageIO, rowIndex, err)
	}
	if p.opts.SyncWrites {
		if err := p.sm.Sync(); err != nil {
			p.rollback()
			return fmt.Errorf("%w: sync row %d: %w", ErrStorageIO, rowIndex, err)
		}
	}

	p.fileLen = max(p.fileLen, off+record.RowSize)
	return nil
}

func (p *Pager) rollback() {
	if err := p.sm.Truncate(p.fileLen); err != nil {
		logging.Logger().Error("pager: rollback truncate failed", "len", p.fileLen, "err", err)
	}
}

// Flush writes the used part of every allocated page holding rows below
// rowCount, then syncs the file.
func (p *Pager) Flush(rowCount uint32) error {
	if p.closed {
		return ErrPagerClosed
	}
	for pageNum, buf := range p.pages {
		if buf == nil {
			continue
		}
		first := uint32(pageNum) * p.rowsPerPage
		if first >= rowCount {
			continue
		}
		used := min(p.rowsPerPage, rowCount-first)
		off := int64(pageNum) * int64(p.opts.PageSize)
		if err := p.sm.WriteAt(buf[:int(used)*record.RowSize], off); err != nil {
			return fmt.Errorf("%w: flush page %d: %w", ErrStorageIO, pageNum, err)
		}
		p.fileLen = max(p.fileLen, off+int64(used)*record.RowSize)
	}
	if err := p.sm.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrStorageIO, err)
	}
	return nil
}

func (p *Pager) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	for i := range p.pages {
		p.pages[i] = nil
	}
	return p.sm.Close()
}

// PageCount returns the number of allocated pages.
func (p *Pager) PageCount() int { return p.allocated }

// Capacity returns the hard row limit: MaxPages * RowsPerPage.
func (p *Pager) Capacity() uint32 { return uint32(p.opts.MaxPages) * p.rowsPerPage }

func (p *Pager) RowsPerPage() uint32 { return p.rowsPerPage }

func (p *Pager) PageSize() int { return p.opts.PageSize }

// RowCountOnDisk is the number of rows found in the file at Open.
func (p *Pager) RowCountOnDisk() uint32 { return p.diskRows }
