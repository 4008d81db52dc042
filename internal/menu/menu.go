// Package menu implements the interactive read-eval loop of the ledger.
// Input and output are injectable so tests can drive the loop with scripted
// input instead of a real terminal.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

type state int

const (
	stateIdle state = iota
	stateAdding
	stateQuerying
	stateExiting
)

type Menu struct {
	svc *services.LedgerService
	rep *report.Reporter
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func New(svc *services.LedgerService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc: svc,
		rep: report.New(out),
		in:  bufio.NewScanner(in),
		out: out,
		now: time.Now,
	}
}

// Run drives the menu until the user exits or input ends. Operation errors
// are reported and the loop continues; only context cancellation and input
// exhaustion end it early.
func (m *Menu) Run(ctx context.Context) error {
	st := stateIdle
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch st {
		case stateIdle:
			st = m.idle()
		case stateAdding:
			st = m.add(ctx)
		case stateQuerying:
			st = m.query(ctx)
		case stateExiting:
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		}
	}
}

func (m *Menu) idle() state {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "1. Add a new transaction")
	fmt.Fprintln(m.out, "2. View transactions and summary within a date range")
	fmt.Fprintln(m.out, "3. Exit")

	choice, ok := m.prompt("Enter your choice (1-3): ")
	if !ok {
		return stateExiting
	}
	switch choice {
	case "1":
		return stateAdding
	case "2":
		return stateQuerying
	case "3":
		return stateExiting
	default:
		fmt.Fprintln(m.out, "Invalid choice. Enter 1, 2, or 3.")
		return stateIdle
	}
}

func (m *Menu) add(ctx context.Context) state {
	date, ok := m.promptDate("Enter the date of the transaction (dd-mm-yyyy) or enter for today's date: ", true)
	if !ok {
		return stateExiting
	}
	amount, ok := m.promptAmount()
	if !ok {
		return stateExiting
	}
	category, ok := m.promptCategory()
	if !ok {
		return stateExiting
	}
	description, ok := m.promptDescription()
	if !ok {
		return stateExiting
	}

	_, err := m.svc.AddTransaction(ctx, core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return stateIdle
	}

	fmt.Fprintln(m.out, "Entry added successfully")
	return stateIdle
}

func (m *Menu) query(ctx context.Context) state {
	start, ok := m.promptDate("Enter the start date (dd-mm-yyyy): ", false)
	if !ok {
		return stateExiting
	}
	end, ok := m.promptDate("Enter the end date (dd-mm-yyyy): ", false)
	if !ok {
		return stateExiting
	}

	res, err := m.svc.QueryRange(ctx, start, end)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return stateIdle
	}

	m.rep.WriteResult(res.Start, res.End, res.Transactions, res.Summary)

	if len(res.Transactions) == 0 {
		return stateIdle
	}
	answer, ok := m.prompt("Do you want to see a plot? (y/n): ")
	if !ok {
		return stateExiting
	}
	if strings.EqualFold(answer, "y") {
		m.rep.WriteChart(res.Transactions)
	}
	return stateIdle
}

// prompt prints the label and reads one trimmed line. ok is false when the
// input is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptDate(label string, allowDefault bool) (core.Date, bool) {
	for {
		line, ok := m.prompt(label)
		if !ok {
			return core.Date{}, false
		}
		if line == "" && allowDefault {
			now := m.now()
			return core.NewDate(now.Year(), int(now.Month()), now.Day()), true
		}
		date, err := core.ParseDate(line)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid date format. Please enter the date in dd-mm-yyyy format.")
			continue
		}
		return date, true
	}
}

func (m *Menu) promptAmount() (decimal.Decimal, bool) {
	for {
		line, ok := m.prompt("Enter the amount: ")
		if !ok {
			return decimal.Zero, false
		}
		d, err := core.ParseAmount(line)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid amount. Please enter a valid number.")
			continue
		}
		return d, true
	}
}

func (m *Menu) promptCategory() (core.Category, bool) {
	for {
		line, ok := m.prompt("Enter the category ('I' for Income or 'E' for Expense): ")
		if !ok {
			return "", false
		}
		cat, err := core.ParseCategory(line)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid category. Please enter 'I' for Income or 'E' for Expense.")
			continue
		}
		return cat, true
	}
}

func (m *Menu) promptDescription() (string, bool) {
	for {
		line, ok := m.prompt("Enter a description: ")
		if !ok {
			return "", false
		}
		if line == "" {
			fmt.Fprintln(m.out, "Description cannot be empty.")
			continue
		}
		return line, true
	}
}
