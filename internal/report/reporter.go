// Package report renders query results for the terminal: a transaction
// table, the income/expense/net summary and an optional time-series chart.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fintrack/internal/core"
)

// NoTransactionsNotice is printed when a range query matches nothing.
const NoTransactionsNotice = "No transactions found in the given date range."

type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// WriteResult prints the queried transactions as a table followed by the
// aggregate summary. An empty result prints only the no-transactions
// notice.
func (r *Reporter) WriteResult(start, end core.Date, txs []core.Transaction, sum core.Summary) {
	if len(txs) == 0 {
		fmt.Fprintln(r.out, NoTransactionsNotice)
		return
	}

	fmt.Fprintf(r.out, "\nTransactions from %s to %s:\n", start, end)

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "date\tamount\tcategory\tdescription")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			tx.Date, tx.Amount.StringFixed(2), tx.Category, tx.Description)
	}
	tw.Flush()

	fmt.Fprintln(r.out, "\nSummary:")
	fmt.Fprintf(r.out, "Total Income: %s\n", core.FormatAmount(sum.TotalIncome))
	fmt.Fprintf(r.out, "Total Expense: %s\n", core.FormatAmount(sum.TotalExpense))
	fmt.Fprintf(r.out, "Net Savings: %s\n", core.FormatAmount(sum.Net))
}

// WriteChart prints the income/expense time-series chart for a non-empty
// result set.
func (r *Reporter) WriteChart(txs []core.Transaction) {
	chart := Chart(txs)
	if chart == "" {
		return
	}
	fmt.Fprintln(r.out, chart)
}
