// Package sqlite provides a SQLite-backed implementation of the
// settlement.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/rcampano/vaquita/internal/settlement"
)

// Ensure Store implements settlement.Store
var _ settlement.Store = (*Store)(nil)

// Store implements settlement.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// persistErr wraps a driver error as a PersistenceFailure.
func persistErr(err error, format string, args ...any) error {
	return settlement.Wrap(settlement.PersistenceFailure, err, format, args...)
}

// decCol renders a decimal for storage; amounts are stored as TEXT.
func decCol(d decimal.Decimal) string {
	return d.String()
}

// scanDec parses a TEXT amount column.
func scanDec(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return d, nil
}

// unixCol renders an optional time as a nullable unix-seconds column.
func unixCol(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// timeCol converts a nullable unix-seconds column back to a time.
func timeCol(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(n.Int64, 0)
	return &t
}
