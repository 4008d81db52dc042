// Package ledger implements the append-only CSV transaction store.
//
// The ledger is a flat record-oriented file: a header line followed by one
// line per transaction (date, amount, category, description). Rows are only
// ever appended; the file is never compacted or rewritten.
package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"
)

// Config carries the store's file layout. Path is required; the other
// fields default to the canonical ledger format.
type Config struct {
	Path       string
	DateFormat string
	Header     []string
}

// DefaultHeader is the canonical column layout of the ledger file.
var DefaultHeader = []string{"date", "amount", "category", "description"}

// Record is a transaction together with its position in the ledger file
// (1-based index among data rows, header excluded).
type Record struct {
	Seq int64
	Tx  core.Transaction
}

type Store struct {
	cfg Config
}

func New(cfg Config) *Store {
	if cfg.DateFormat == "" {
		cfg.DateFormat = core.DateFormat
	}
	if len(cfg.Header) == 0 {
		cfg.Header = DefaultHeader
	}
	return &Store{cfg: cfg}
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Initialize ensures the ledger file exists. A missing file is created with
// the header line and the fixed seed data set; an existing file is left
// untouched, so calling Initialize twice never duplicates the seed rows.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := os.Stat(s.cfg.Path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger file: %w", err)
	}

	if dir := filepath.Dir(s.cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.cfg.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.cfg.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range SeedTransactions() {
		if err := w.Write(s.row(tx)); err != nil {
			return fmt.Errorf("write seed row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush seed data: %w", err)
	}

	slog.InfoContext(ctx, "Ledger file created with sample data",
		"path", s.cfg.Path,
		"seed_rows", len(SeedTransactions()))
	return nil
}

// Append adds one transaction to the end of the ledger and returns its
// sequence number. The file handle is held only for the duration of the
// single write.
func (s *Store) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	seq, err := s.countRows()
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(s.cfg.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.row(tx)); err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction appended to ledger",
		"seq", seq+1,
		"date", tx.Date.Format(s.cfg.DateFormat),
		"amount", tx.Amount.String(),
		"category", tx.Category.String())
	return seq + 1, nil
}

// Query returns the ordered subsequence of transactions whose date lies in
// [start, end] inclusive. Rows that fail to parse are silently excluded;
// an empty result is not an error.
func (s *Store) Query(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	records, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []core.Transaction
	for _, rec := range records {
		if rec.Tx.Date.InRange(start, end) {
			out = append(out, rec.Tx)
		}
	}
	return out, nil
}

// All returns every parseable record with its sequence number, in file
// order. Used by the mirror reconciler.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	return s.readAll(ctx)
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

func (s *Store) row(tx core.Transaction) []string {
	return []string{
		tx.Date.Format(s.cfg.DateFormat),
		tx.Amount.String(),
		tx.Category.String(),
		tx.Description,
	}
}

func (s *Store) readAll(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate malformed rows, they are skipped below

	var (
		out     []Record
		seq     int64
		skipped int
		first   = true
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger file: %w", err)
		}
		if first {
			first = false // header line
			continue
		}
		seq++
		tx, ok := s.parseRow(row)
		if !ok {
			skipped++
			continue
		}
		out = append(out, Record{Seq: seq, Tx: tx})
	}

	if skipped > 0 {
		slog.DebugContext(ctx, "Skipped unparseable ledger rows",
			"path", s.cfg.Path,
			"skipped", skipped)
	}
	return out, nil
}

func (s *Store) parseRow(row []string) (core.Transaction, bool) {
	if len(row) < 4 {
		return core.Transaction{}, false
	}
	date, err := core.ParseDate(row[0])
	if err != nil {
		return core.Transaction{}, false
	}
	amount, err := core.ParseAmount(row[1])
	if err != nil {
		return core.Transaction{}, false
	}
	cat := core.Category(row[2])
	if cat.Validate() != nil {
		return core.Transaction{}, false
	}
	return core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    cat,
		Description: row[3],
	}, true
}

// countRows returns the number of data rows currently in the ledger,
// malformed rows included.
func (s *Store) countRows() (int64, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return 0, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var n int64 = -1 // header does not count
	for {
		if _, err := r.Read(); err == io.EOF {
			break
		} else if err != nil {
			return 0, fmt.Errorf("read ledger file: %w", err)
		}
		n++
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
