package services

import "strings"

// budgetRanges maps the client form's budget choices onto a representative
// amount in whole currency units.
var budgetRanges = map[string]int64{
	"under-500k": 500_000,
	"500k-1m":    750_000,
	"1m-5m":      3_000_000,
	"5m-10m":     7_500_000,
	"10m-plus":   15_000_000,
}

// BudgetFromToken returns nil for blank or unrecognized tokens.
func BudgetFromToken(token string) *int64 {
	v, ok := budgetRanges[strings.TrimSpace(token)]
	if !ok {
		return nil
	}
	return &v
}
