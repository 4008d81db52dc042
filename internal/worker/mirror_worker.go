package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// MirrorWorker keeps the SQLite mirror in step with the CSV ledger. The
// fast path is AMQP messages published on every append; the reconcile sweep
// is the backup for lost messages or worker downtime.
type MirrorWorker struct {
	mirror   *storage.Repository
	ledger   *ledger.Store
	exporter sheets.TransactionExporter
}

func NewMirrorWorker(mirror *storage.Repository, ledgerStore *ledger.Store, exporter sheets.TransactionExporter) *MirrorWorker {
	return &MirrorWorker{
		mirror:   mirror,
		ledger:   ledgerStore,
		exporter: exporter,
	}
}

// HandleTransactionMessage mirrors a single appended transaction. The
// upsert is keyed by ledger sequence, so redelivered messages are harmless.
func (w *MirrorWorker) HandleTransactionMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	tx, err := msg.Transaction()
	if err != nil {
		return fmt.Errorf("decode transaction message: %w", err)
	}

	if err := w.mirror.Upsert(ctx, msg.Seq, tx); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"seq", msg.Seq,
		"date", msg.Date,
		"amount", msg.Amount)

	w.export(ctx, msg.Seq, tx)
	return nil
}

// Reconcile re-reads the CSV ledger and mirrors every record the mirror has
// not seen yet. Safe to run at any time.
func (w *MirrorWorker) Reconcile(ctx context.Context) error {
	records, err := w.ledger.All(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	maxSeq, err := w.mirror.MaxSeq(ctx)
	if err != nil {
		return fmt.Errorf("mirror max seq: %w", err)
	}

	synced := 0
	for _, rec := range records {
		if rec.Seq <= maxSeq {
			continue
		}
		if err := w.mirror.Upsert(ctx, rec.Seq, rec.Tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror ledger record",
				"seq", rec.Seq, "error", err)
			continue
		}
		w.export(ctx, rec.Seq, rec.Tx)
		synced++
	}

	if synced > 0 {
		slog.InfoContext(ctx, "Reconcile completed",
			"ledger_rows", len(records),
			"mirrored", synced)
	}
	return nil
}

// Run performs a startup reconcile, then consumes mirror messages and
// sweeps the ledger on the given interval until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	if err := w.Reconcile(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup reconcile failed", "error", err)
		// Keep going: the periodic sweep will retry.
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeTransactions(ctx, func(msg *amqp.TransactionMessage) error {
			return w.HandleTransactionMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Reconcile(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic reconcile failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

// export forwards a mirrored transaction to the external sheet when an
// exporter is configured. Export failures are logged, never fatal: the
// mirror write already succeeded.
func (w *MirrorWorker) export(ctx context.Context, seq int64, tx core.Transaction) {
	if w.exporter == nil {
		return
	}
	ref, err := w.exporter.Export(ctx, seq, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export transaction",
			"seq", seq, "error", err)
		return
	}
	slog.InfoContext(ctx, "Transaction exported", "seq", seq, "ref", ref)
}
