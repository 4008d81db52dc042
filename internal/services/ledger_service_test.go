package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type fakePublisher struct {
	msgs []*amqp.TransactionMessage
	err  error
}

func (p *fakePublisher) PublishTransaction(_ context.Context, msg *amqp.TransactionMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func newTestService(t *testing.T, pub Publisher) *LedgerService {
	t.Helper()
	store := ledger.New(ledger.Config{Path: filepath.Join(t.TempDir(), "finance_data.csv")})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return NewLedgerService(store, pub)
}

func TestAddTransactionPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	seq, err := svc.AddTransaction(ctx, core.Transaction{
		Date:        core.NewDate(2025, 3, 15),
		Amount:      decimal.NewFromInt(-75),
		Category:    core.Expense,
		Description: "Coffee",
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if seq != 16 {
		t.Fatalf("expected seq 16, got %d", seq)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Seq != 16 || pub.msgs[0].Description != "Coffee" {
		t.Fatalf("unexpected published messages: %+v", pub.msgs)
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.AddTransaction(context.Background(), core.Transaction{
		Date:        core.NewDate(2025, 1, 1),
		Amount:      decimal.NewFromInt(10),
		Category:    "Other",
		Description: "x",
	})
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAddTransactionSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)
	ctx := context.Background()

	if _, err := svc.AddTransaction(ctx, core.Transaction{
		Date:        core.NewDate(2025, 4, 1),
		Amount:      decimal.NewFromInt(50),
		Category:    core.Income,
		Description: "Tip",
	}); err != nil {
		t.Fatalf("publish failure must not fail the add: %v", err)
	}

	// The transaction is still queryable.
	res, err := svc.QueryRange(ctx, core.NewDate(2025, 4, 1), core.NewDate(2025, 4, 1))
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(res.Transactions) != 1 || res.Transactions[0].Description != "Tip" {
		t.Fatalf("appended transaction missing: %+v", res.Transactions)
	}
}

func TestQueryRangeSummary(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.QueryRange(ctx, core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 15))
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(res.Transactions) != 15 {
		t.Fatalf("expected 15 seed transactions, got %d", len(res.Transactions))
	}
	// Seed data: income 2000+500+1000+1500+100+2500, expense sums negative.
	if res.Summary.TotalIncome.String() != "7600" {
		t.Fatalf("TotalIncome = %s, want 7600", res.Summary.TotalIncome)
	}
	if res.Summary.TotalExpense.String() != "-1700" {
		t.Fatalf("TotalExpense = %s, want -1700", res.Summary.TotalExpense)
	}
	if !res.Summary.Net.Equal(res.Summary.TotalIncome.Sub(res.Summary.TotalExpense)) {
		t.Fatal("net invariant broken")
	}
}

func TestQueryRangeEmpty(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.QueryRange(context.Background(), core.NewDate(2030, 1, 1), core.NewDate(2030, 1, 31))
	if err != nil {
		t.Fatalf("empty range should not error: %v", err)
	}
	if len(res.Transactions) != 0 {
		t.Fatalf("expected no transactions, got %d", len(res.Transactions))
	}
	if !res.Summary.TotalIncome.IsZero() || !res.Summary.TotalExpense.IsZero() || !res.Summary.Net.IsZero() {
		t.Fatalf("empty summary should be zeros: %+v", res.Summary)
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := &LedgerService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should tolerate nil components: %v", err)
	}
}
