package ledger

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// SeedTransactions returns the fixed sample data written on first
// initialization so a fresh ledger has something to query and plot.
func SeedTransactions() []core.Transaction {
	rows := []struct {
		day    int
		amount int64
		cat    core.Category
		desc   string
	}{
		{1, 2000, core.Income, "Salary"},
		{2, -150, core.Expense, "Groceries"},
		{3, 500, core.Income, "Freelance work"},
		{4, -200, core.Expense, "Transport"},
		{5, -100, core.Expense, "Entertainment"},
		{6, 1000, core.Income, "Investment Returns"},
		{7, -50, core.Expense, "Snacks"},
		{8, -300, core.Expense, "Rent"},
		{9, 1500, core.Income, "Freelance work"},
		{10, -250, core.Expense, "Utilities"},
		{11, 100, core.Income, "Side project"},
		{12, -200, core.Expense, "Groceries"},
		{13, -150, core.Expense, "Transport"},
		{14, 2500, core.Income, "Salary"},
		{15, -300, core.Expense, "Insurance"},
	}

	out := make([]core.Transaction, len(rows))
	for i, r := range rows {
		out[i] = core.Transaction{
			Date:        core.NewDate(2025, 1, r.day),
			Amount:      decimal.NewFromInt(r.amount),
			Category:    r.cat,
			Description: r.desc,
		}
	}
	return out
}
