// Package core provides the ledger domain types: dated transactions with
// signed decimal amounts and an Income/Expense category.
//
// This file contains amount parsing and display formatting.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an exact decimal amount.
//
// It accepts an optional sign and both dot (12.34) and comma (12,34)
// decimal separators. Thousands separators and currency symbols are
// rejected. Zero is a valid amount.
//
// Examples:
//
//	ParseAmount("2000")   -> 2000, nil
//	ParseAmount("-75")    -> -75, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("$12")    -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount as currency with two decimal places,
// e.g. "$2000.00" or "$-75.00".
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
