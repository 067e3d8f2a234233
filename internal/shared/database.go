package shared

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
// Returns an open database connection or an error if connection fails.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

var handle struct {
	once sync.Once
	db   *sql.DB
	err  error
}

// SharedDatabase returns the process-wide database handle, opening it and running migrations on first use.
//
// Later calls return the same handle (or the same error) regardless of cfg. The handle lives for the process.
func SharedDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	handle.once.Do(func() {
		db, err := NewDatabase(cfg.Path)
		if err != nil {
			handle.err = fmt.Errorf("%w: %w", ErrStorage, err)
			return
		}
		if cfg.MaxOpenConns > 0 {
			ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		}
		if err := RunMigrations(db); err != nil {
			db.Close()
			handle.err = fmt.Errorf("%w: %w", ErrStorage, err)
			return
		}
		handle.db = db
	})
	return handle.db, handle.err
}
