package storage

import (
	"errors"
)

const (
	OneKB = 1 << 10 // 1,024

	DefaultPageSize = 4 * OneKB // 4,096, one OS page
	DefaultMaxPages = 100
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrStorageIO       = errors.New("storage: I/O error")
	ErrPageOutOfBounds = errors.New("storage: page number out of bounds")
	ErrBadPageSize     = errors.New("storage: page size smaller than one row")
	ErrFileTooLarge    = errors.New("storage: file holds more rows than the table capacity")
	ErrPagerClosed     = errors.New("storage: pager is closed")
)
