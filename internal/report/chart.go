package report

import (
	"time"

	"github.com/guptarohit/asciigraph"

	"fintrack/internal/core"
)

// Chart renders income and expenses over time as an ASCII line chart.
// Transactions are bucketed by day from the earliest to the latest date in
// the input, missing days filled with zero, one series per category.
// Returns "" for an empty input.
func Chart(txs []core.Transaction) string {
	income, expense := dailySeries(txs)
	if len(income) == 0 {
		return ""
	}

	return asciigraph.PlotMany(
		[][]float64{income, expense},
		asciigraph.Height(10),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.SeriesLegends("Income", "Expense"),
		asciigraph.Caption("Income and Expenses Over Time"),
	)
}

// dailySeries buckets amounts per calendar day and category, zero-filling
// the days in between.
func dailySeries(txs []core.Transaction) (income, expense []float64) {
	if len(txs) == 0 {
		return nil, nil
	}

	day := func(d core.Date) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}

	min, max := day(txs[0].Date), day(txs[0].Date)
	incomeByDay := make(map[time.Time]float64)
	expenseByDay := make(map[time.Time]float64)
	for _, tx := range txs {
		d := day(tx.Date)
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
		amount := tx.Amount.InexactFloat64()
		switch tx.Category {
		case core.Income:
			incomeByDay[d] += amount
		case core.Expense:
			expenseByDay[d] += amount
		}
	}

	for d := min; !d.After(max); d = d.AddDate(0, 0, 1) {
		income = append(income, incomeByDay[d])
		expense = append(expense, expenseByDay[d])
	}
	return income, expense
}
