// Package report aggregates transactions into chart-ready summaries. All
// builders are pure functions over an in-memory transaction slice so callers
// decide when to hit the store.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
)

// Group is one aggregation bucket keyed by category or payment method.
// Groups preserve first-seen order so charts render in the order the data
// arrived.
type Group struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ExcludeCategories drops transactions whose category is in the excluded
// list. An empty list returns the input unchanged.
func ExcludeCategories(txns []ledger.Transaction, excluded []string) []ledger.Transaction {
	if len(excluded) == 0 {
		return txns
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, c := range excluded {
		skip[c] = struct{}{}
	}
	out := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		if _, ok := skip[t.Category]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SumByType totals income and expense amounts separately.
func SumByType(txns []ledger.Transaction) (income, expense decimal.Decimal) {
	for _, t := range txns {
		switch t.Type {
		case ledger.TypeIncome:
			income = income.Add(t.Amount)
		case ledger.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// GroupByCategory buckets transactions by category in first-seen order.
func GroupByCategory(txns []ledger.Transaction) []Group {
	return groupBy(txns, func(t ledger.Transaction) string { return t.Category })
}

// GroupByPaymentMethod buckets transactions by payment method in first-seen
// order.
func GroupByPaymentMethod(txns []ledger.Transaction) []Group {
	return groupBy(txns, func(t ledger.Transaction) string { return t.PaymentMethod })
}

func groupBy(txns []ledger.Transaction, key func(ledger.Transaction) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, t := range txns {
		k := key(t)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Total = groups[i].Total.Add(t.Amount)
		groups[i].Count++
	}
	return groups
}

// TopN returns the n largest groups by total. The sort is stable so groups
// with equal totals keep their insertion order.
func TopN(groups []Group, n int) []Group {
	sorted := append([]Group(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total.GreaterThan(sorted[j].Total)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopNByCount returns the n groups with the most transactions.
func TopNByCount(groups []Group, n int) []Group {
	sorted := append([]Group(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// PercentChange returns the percentage change from previous to current.
// A zero previous value yields 0 rather than a division blowup.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
}

// BudgetUtilization returns spent as a percentage of budget, or 0 when the
// budget is not positive.
func BudgetUtilization(spent, budget decimal.Decimal) decimal.Decimal {
	if budget.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return spent.Div(budget).Mul(decimal.NewFromInt(100))
}
