package menu

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

func newTestMenu(t *testing.T, input string) (*Menu, *services.LedgerService, *bytes.Buffer) {
	t.Helper()
	store := ledger.New(ledger.Config{Path: filepath.Join(t.TempDir(), "finance_data.csv")})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	svc := services.NewLedgerService(store, nil)

	var out bytes.Buffer
	m := New(svc, strings.NewReader(input), &out)
	m.now = func() time.Time {
		return time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)
	}
	return m, svc, &out
}

func TestExitChoice(t *testing.T) {
	m, _, out := newTestMenu(t, "3\n")
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Exiting...") {
		t.Fatalf("missing exit message:\n%s", out.String())
	}
}

func TestInvalidChoiceLoops(t *testing.T) {
	m, _, out := newTestMenu(t, "7\n3\n")
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid choice. Enter 1, 2, or 3.") {
		t.Fatalf("missing invalid-choice message:\n%s", out.String())
	}
}

func TestInputExhaustionExits(t *testing.T) {
	m, _, _ := newTestMenu(t, "")
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("EOF should end the loop cleanly: %v", err)
	}
}

func TestAddFlow(t *testing.T) {
	input := strings.Join([]string{
		"1",          // add
		"15-03-2025", // date
		"-75",        // amount
		"E",          // category
		"Coffee",     // description
		"3",          // exit
	}, "\n") + "\n"
	m, svc, out := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Entry added successfully") {
		t.Fatalf("missing success message:\n%s", out.String())
	}

	res, err := svc.QueryRange(context.Background(), core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31))
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(res.Transactions) != 1 || res.Transactions[0].Description != "Coffee" {
		t.Fatalf("added transaction not found: %+v", res.Transactions)
	}
	if res.Summary.TotalExpense.String() != "-75" {
		t.Fatalf("TotalExpense = %s, want -75", res.Summary.TotalExpense)
	}
}

func TestAddFlowDefaultsToToday(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"", // empty date -> today (pinned to 20-07-2025)
		"100",
		"income",
		"Side project",
		"3",
	}, "\n") + "\n"
	m, svc, _ := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	res, err := svc.QueryRange(context.Background(), core.NewDate(2025, 7, 20), core.NewDate(2025, 7, 20))
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(res.Transactions) != 1 || res.Transactions[0].Date.String() != "20-07-2025" {
		t.Fatalf("expected transaction dated 20-07-2025: %+v", res.Transactions)
	}
}

func TestAddFlowRepromptsOnBadInput(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"31-13-2025", // bad date
		"01-04-2025",
		"abc", // bad amount
		"-20",
		"x", // bad category
		"e",
		"", // empty description
		"Lunch",
		"3",
	}, "\n") + "\n"
	m, svc, out := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{
		"Invalid date format.",
		"Invalid amount.",
		"Invalid category.",
		"Description cannot be empty.",
		"Entry added successfully",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q:\n%s", want, out.String())
		}
	}

	res, err := svc.QueryRange(context.Background(), core.NewDate(2025, 4, 1), core.NewDate(2025, 4, 1))
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(res.Transactions) != 1 || res.Transactions[0].Description != "Lunch" {
		t.Fatalf("re-prompted add failed: %+v", res.Transactions)
	}
}

func TestQueryFlowWithPlot(t *testing.T) {
	input := strings.Join([]string{
		"2",
		"01-01-2025",
		"15-01-2025",
		"y", // show plot
		"3",
	}, "\n") + "\n"
	m, _, out := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Transactions from 01-01-2025 to 15-01-2025:",
		"Total Income: $7600.00",
		"Total Expense: $-1700.00",
		"Net Savings: $9300.00",
		"Income and Expenses Over Time",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q:\n%s", want, got)
		}
	}
}

func TestQueryFlowDeclinePlot(t *testing.T) {
	input := strings.Join([]string{
		"2",
		"01-01-2025",
		"15-01-2025",
		"n",
		"3",
	}, "\n") + "\n"
	m, _, out := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "Income and Expenses Over Time") {
		t.Fatalf("plot rendered despite 'n':\n%s", out.String())
	}
}

func TestQueryFlowEmptyRangeSkipsPlotPrompt(t *testing.T) {
	input := strings.Join([]string{
		"2",
		"01-01-2030",
		"31-01-2030",
		"3", // straight back to the menu, no plot prompt
	}, "\n") + "\n"
	m, _, out := newTestMenu(t, input)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "No transactions found in the given date range.") {
		t.Fatalf("missing no-transactions notice:\n%s", got)
	}
	if strings.Contains(got, "Do you want to see a plot?") {
		t.Fatalf("plot prompt shown for empty result:\n%s", got)
	}
}
