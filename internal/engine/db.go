package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/pagedb/internal"
	"github.com/tuannm99/pagedb/internal/logging"
	"github.com/tuannm99/pagedb/internal/sql/executor"
	"github.com/tuannm99/pagedb/internal/storage"
	"github.com/tuannm99/pagedb/internal/table"
)

var ErrDatabaseClosed = errors.New("pagedb: database is closed")

// Database is one open page file together with the table and executor
// built on top of it.
type Database struct {
	Path string

	tbl    *table.Table
	exec   *executor.Executor
	log    *slog.Logger
	closed bool
}

// Open opens (or creates) the database file at path. A nil cfg means
// internal.DefaultConfig().
func Open(path string, cfg *internal.Config) (*Database, error) {
	if path == "" {
		return nil, errors.New("pagedb: empty database path")
	}
	if cfg == nil {
		cfg = internal.DefaultConfig()
	}

	pager, err := storage.Open(path, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var opts []table.Option
	if cfg.Cache.Enabled {
		cache, err := table.NewRowCache(cfg.Cache.MaxRows)
		if err != nil {
			_ = pager.Close()
			return nil, err
		}
		opts = append(opts, table.WithRowCache(cache))
	}

	tbl := table.New(pager, pager.RowCountOnDisk(), opts...)
	log := logging.Logger().With("db", path)
	log.Info("database opened",
		"rows", tbl.RowCount(),
		"capacity", tbl.Capacity(),
		"rows_per_page", pager.RowsPerPage(),
	)
	if !cfg.Storage.SyncWrites {
		log.Warn("storage.sync_writes is off: acknowledged inserts may be lost on a crash")
	}

	return &Database{
		Path: path,
		tbl:  tbl,
		exec: executor.NewExecutor(tbl).WithLogger(log),
		log:  log,
	}, nil
}

func (db *Database) Executor() (*executor.Executor, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.exec, nil
}

// ExecLine parses and runs one statement.
func (db *Database) ExecLine(line string) (*executor.Result, error) {
	exec, err := db.Executor()
	if err != nil {
		return nil, err
	}
	return exec.ExecLine(line)
}

func (db *Database) RowCount() uint32 { return db.tbl.RowCount() }

// Close flushes every allocated page and releases the file. Calling it again
// is a no-op.
func (db *Database) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true

	rows := db.tbl.RowCount()
	if err := db.tbl.Close(); err != nil {
		db.log.Error("database close failed", "err", err)
		return fmt.Errorf("close %s: %w", db.Path, err)
	}
	db.log.Info("database closed", "rows", rows)
	return nil
}
