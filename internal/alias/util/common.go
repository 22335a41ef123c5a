package util

import (
	"log/slog"
	"os"
)

// CloseFileFunc closes f and only logs a failure; used on paths that are
// already returning another error.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("close file", "file", f.Name(), "err", err)
	}
}
