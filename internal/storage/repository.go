// Package storage holds the SQLite transaction mirror. The CSV ledger stays
// the source of truth; the mirror gives the worker and reporting queries an
// indexed copy keyed by ledger sequence number.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ledger"

	_ "modernc.org/sqlite"
)

// isoDay is the column layout of tx_date; lexicographic order matches
// calendar order so range scans can use BETWEEN.
const isoDay = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize seeds the sample data set when the table is empty, giving the
// sqlite backend the same first-run behavior as the CSV ledger. Calling it
// again is a no-op.
func (r *Repository) Initialize(ctx context.Context) error {
	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, tx := range ledger.SeedTransactions() {
		if _, err := r.Append(ctx, tx); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	slog.InfoContext(ctx, "SQLite store seeded with sample data")
	return nil
}

// Append inserts a transaction with the next sequence number.
func (r *Repository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (seq, tx_date, amount, category, description)
		 VALUES ((SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions), ?, ?, ?, ?)
		 RETURNING seq`,
		tx.Date.Format(isoDay),
		tx.Amount.String(),
		tx.Category.String(),
		tx.Description,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"seq", seq,
		"date", tx.Date.String(),
		"amount", tx.Amount.String(),
		"category", tx.Category.String())
	return seq, nil
}

// Upsert writes a transaction under an externally assigned ledger sequence
// number. Replaying the same message is harmless.
func (r *Repository) Upsert(ctx context.Context, seq int64, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transactions (seq, tx_date, amount, category, description)
		 VALUES (?, ?, ?, ?, ?)`,
		seq,
		tx.Date.Format(isoDay),
		tx.Amount.String(),
		tx.Category.String(),
		tx.Description,
	)
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}
	return nil
}

// Query returns transactions with start <= date <= end ordered by sequence.
func (r *Repository) Query(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tx_date, amount, category, description
		 FROM transactions
		 WHERE tx_date BETWEEN ? AND ?
		 ORDER BY seq`,
		start.Format(isoDay), end.Format(isoDay))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			dateStr, amountStr, catStr, desc string
		)
		if err := rows.Scan(&dateStr, &amountStr, &catStr, &desc); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, ok := parseStored(dateStr, amountStr, catStr, desc)
		if !ok {
			// Same contract as the CSV ledger: malformed rows are dropped.
			continue
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count returns the number of mirrored transactions.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// MaxSeq returns the highest mirrored ledger sequence, 0 when empty.
func (r *Repository) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM transactions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}

func parseStored(dateStr, amountStr, catStr, desc string) (core.Transaction, bool) {
	t, err := time.Parse(isoDay, dateStr)
	if err != nil {
		return core.Transaction{}, false
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return core.Transaction{}, false
	}
	cat := core.Category(catStr)
	if cat.Validate() != nil {
		return core.Transaction{}, false
	}
	return core.Transaction{
		Date:        core.Date{Time: t},
		Amount:      amount,
		Category:    cat,
		Description: desc,
	}, true
}
