package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
)

type fakeExporter struct {
	seqs []int64
	err  error
}

func (e *fakeExporter) Export(_ context.Context, seq int64, _ core.Transaction) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.seqs = append(e.seqs, seq)
	return "Transactions!A1:E1", nil
}

func newTestWorker(t *testing.T, exporter *fakeExporter) (*MirrorWorker, *ledger.Store, *storage.Repository) {
	t.Helper()
	dir := t.TempDir()

	store := ledger.New(ledger.Config{Path: filepath.Join(dir, "finance_data.csv")})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize ledger: %v", err)
	}

	mirror, err := storage.NewRepository(filepath.Join(dir, "mirror.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { mirror.Close() })

	if exporter == nil {
		return NewMirrorWorker(mirror, store, nil), store, mirror
	}
	return NewMirrorWorker(mirror, store, exporter), store, mirror
}

func TestHandleTransactionMessage(t *testing.T) {
	w, _, mirror := newTestWorker(t, nil)
	ctx := context.Background()

	msg := amqp.NewTransactionMessage(16, core.Transaction{
		Date:        core.NewDate(2025, 3, 15),
		Amount:      decimal.NewFromInt(-75),
		Category:    core.Expense,
		Description: "Coffee",
	})
	if err := w.HandleTransactionMessage(ctx, msg); err != nil {
		t.Fatalf("HandleTransactionMessage: %v", err)
	}

	// Redelivery must not duplicate.
	if err := w.HandleTransactionMessage(ctx, msg); err != nil {
		t.Fatalf("redelivered message: %v", err)
	}

	count, err := mirror.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 mirrored row, got %d", count)
	}

	txs, err := mirror.Query(ctx, core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "Coffee" {
		t.Fatalf("mirrored row mismatch: %+v", txs)
	}
}

func TestHandleTransactionMessageRejectsMalformed(t *testing.T) {
	w, _, _ := newTestWorker(t, nil)
	msg := &amqp.TransactionMessage{Seq: 1, Date: "31-13-2025", Amount: "10", Category: "Expense", Description: "x"}
	if err := w.HandleTransactionMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed message")
	}
}

func TestReconcileMirrorsLedger(t *testing.T) {
	w, store, mirror := newTestWorker(t, nil)
	ctx := context.Background()

	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	count, err := mirror.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 15 {
		t.Fatalf("expected 15 mirrored seed rows, got %d", count)
	}

	// New append, then a second sweep picks up only the new row.
	if _, err := store.Append(ctx, core.Transaction{
		Date:        core.NewDate(2025, 2, 1),
		Amount:      decimal.NewFromInt(-40),
		Category:    core.Expense,
		Description: "Books",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	count, err = mirror.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 16 {
		t.Fatalf("expected 16 mirrored rows, got %d", count)
	}
}

func TestReconcileExports(t *testing.T) {
	exp := &fakeExporter{}
	w, _, _ := newTestWorker(t, exp)

	if err := w.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(exp.seqs) != 15 {
		t.Fatalf("expected 15 exports, got %d", len(exp.seqs))
	}
}

func TestExportFailureIsNotFatal(t *testing.T) {
	exp := &fakeExporter{err: errors.New("api down")}
	w, _, mirror := newTestWorker(t, exp)
	ctx := context.Background()

	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("export failure must not fail reconcile: %v", err)
	}
	count, err := mirror.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 15 {
		t.Fatalf("mirror writes should survive export failure, got %d rows", count)
	}
}
