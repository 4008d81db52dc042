// Package backend selects the transaction store implementation.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
)

// Store is the persistent transaction collection: initialized once with
// seed data, grown by appends, queried by inclusive date range.
type Store interface {
	Initialize(ctx context.Context) error
	Append(ctx context.Context, tx core.Transaction) (int64, error)
	Query(ctx context.Context, start, end core.Date) ([]core.Transaction, error)
	Close() error
}

// Type represents the configured store implementation.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type Type

	// CSV specific
	LedgerPath string

	// SQLite specific
	SQLiteDBPath string
}

// NewStore builds the configured store. The CSV ledger is the default and
// the canonical storage contract; SQLite reuses the mirror schema as a
// local alternative.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Type {
	case CSVBackend, "":
		return ledger.New(ledger.Config{Path: cfg.LedgerPath}), nil
	case SQLiteBackend:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown backend type: %s", cfg.Type)
	}
}
