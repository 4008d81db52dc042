package core

import "github.com/shopspring/decimal"

// Summary holds the aggregate figures for a queried slice of the ledger.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// Summarize computes income, expense and net totals over the given
// transactions. It is a pure function: amounts are summed as signed
// decimals per category and Net is always TotalIncome - TotalExpense.
// An empty input yields all zeros.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Category {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
