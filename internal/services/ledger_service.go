package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/core"
)

// Publisher sends mirror events for appended transactions.
type Publisher interface {
	PublishTransaction(ctx context.Context, msg *amqp.TransactionMessage) error
}

// LedgerService orchestrates ledger operations: the store is the source of
// truth, the publisher feeds the optional SQLite mirror.
type LedgerService struct {
	store     backend.Store
	publisher Publisher
}

func NewLedgerService(store backend.Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// QueryResult bundles a range query with its aggregate totals.
type QueryResult struct {
	Start, End   core.Date
	Transactions []core.Transaction
	Summary      core.Summary
}

// AddTransaction validates and appends a transaction, then publishes a
// mirror event. A publish failure never fails the add: the ledger write
// already succeeded.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	seq, err := s.store.Append(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}

	if s.publisher == nil {
		return seq, nil
	}
	if err := s.publisher.PublishTransaction(ctx, amqp.NewTransactionMessage(seq, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction message",
			"seq", seq, "error", err)
		// Don't fail the request - transaction is saved locally
	}
	return seq, nil
}

// QueryRange returns the transactions in [start, end] inclusive together
// with their income/expense/net summary.
func (s *LedgerService) QueryRange(ctx context.Context, start, end core.Date) (QueryResult, error) {
	txs, err := s.store.Query(ctx, start, end)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query transactions: %w", err)
	}

	return QueryResult{
		Start:        start,
		End:          end,
		Transactions: txs,
		Summary:      core.Summarize(txs),
	}, nil
}

// Close closes the store and, when the publisher holds a connection, the
// publisher too.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
