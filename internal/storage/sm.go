package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuannm99/pagedb/internal/alias/util"
)

// StorageManager owns the database file and maps a pageID to its byte
// offset (pageID * pageSize). It does no caching.
type StorageManager struct {
	f        *os.File
	pageSize int
}

// OpenStorageManager opens path read-write, creating it (and its parent
// directory) when missing. The file is never truncated here.
func OpenStorageManager(path string, pageSize int) (*StorageManager, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, FileMode0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("open database file: %w", err)
	}
	return &StorageManager{f: f, pageSize: pageSize}, nil
}

func (sm *StorageManager) offset(pageID uint32) int64 {
	return int64(pageID) * int64(sm.pageSize)
}

// ReadPage reads exactly one page into dst. If the file is shorter than
// offset+pageSize the remainder is zero-filled, so pages past EOF come
// back blank.
func (sm *StorageManager) ReadPage(pageID uint32, dst []byte) error {
	if len(dst) != sm.pageSize {
		return fmt.Errorf("dst must be exactly %d bytes", sm.pageSize)
	}
	n, err := sm.f.ReadAt(dst, sm.offset(pageID))
	if err != nil && err != io.EOF {
		return err
	}
	clear(dst[n:])
	return nil
}

// WriteAt writes src at the absolute file offset off.
func (sm *StorageManager) WriteAt(src []byte, off int64) error {
	n, err := sm.f.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != len(src) {
		return io.ErrShortWrite
	}
	return nil
}

func (sm *StorageManager) Size() (int64, error) {
	info, err := sm.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (sm *StorageManager) Truncate(size int64) error {
	return sm.f.Truncate(size)
}

func (sm *StorageManager) Sync() error {
	return sm.f.Sync()
}

func (sm *StorageManager) Close() error {
	return sm.f.Close()
}

func (sm *StorageManager) closeQuietly() {
	util.CloseFileFunc(sm.f)
}
