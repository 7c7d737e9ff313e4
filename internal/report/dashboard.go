package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// Dashboard carries the headline figures shown on the landing screen.
// AverageExpense is the current month's expense total divided by the number
// of expense transactions in that month, not by days. HighestExpense is the
// largest expense of the current month, not of the whole ledger.
type Dashboard struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`

	MonthLabel   string          `json:"monthLabel"`
	MonthIncome  decimal.Decimal `json:"monthIncome"`
	MonthExpense decimal.Decimal `json:"monthExpense"`
	MonthNet     decimal.Decimal `json:"monthNet"`

	AverageExpense decimal.Decimal     `json:"averageExpense"`
	HighestExpense *ledger.Transaction `json:"highestExpense,omitempty"`
}

// BuildDashboard computes headline figures from the full transaction list,
// honoring report exclusions. The current month is the civil month containing
// now.
func BuildDashboard(txns []ledger.Transaction, settings ledger.Settings, now time.Time) Dashboard {
	visible := ExcludeCategories(txns, settings.ExcludedFromReports)

	income, expense := SumByType(visible)
	d := Dashboard{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		MonthLabel:   trlocale.MonthYearLabel(now),
	}

	monthStart := trlocale.StartOfMonth(now)
	monthEnd := trlocale.EndOfMonth(now)
	expenseCount := 0
	for i := range visible {
		t := visible[i]
		inMonth := !t.Date.Before(monthStart) && !t.Date.After(monthEnd)
		if !inMonth {
			continue
		}
		switch t.Type {
		case ledger.TypeIncome:
			d.MonthIncome = d.MonthIncome.Add(t.Amount)
		case ledger.TypeExpense:
			d.MonthExpense = d.MonthExpense.Add(t.Amount)
			expenseCount++
			if d.HighestExpense == nil || t.Amount.GreaterThan(d.HighestExpense.Amount) {
				highest := visible[i]
				d.HighestExpense = &highest
			}
		}
	}
	d.MonthNet = d.MonthIncome.Sub(d.MonthExpense)
	if expenseCount > 0 {
		d.AverageExpense = d.MonthExpense.Div(decimal.NewFromInt(int64(expenseCount)))
	}
	return d
}
