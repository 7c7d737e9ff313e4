package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// DayPoint is one day of a date-range series.
type DayPoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryShare is one slice of a category breakdown, with the transactions
// behind it for drill-down.
type CategoryShare struct {
	Category     string               `json:"category"`
	Total        decimal.Decimal      `json:"total"`
	Percent      decimal.Decimal      `json:"percent"`
	Count        int                  `json:"count"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// RangeReport summarizes a date range with a per-day series and an expense
// breakdown by category.
type RangeReport struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	Days       []DayPoint      `json:"days"`
	Categories []CategoryShare `json:"categories"`
}

// BuildRangeReport aggregates transactions falling between start and end
// inclusive, after applying report exclusions. Day boundaries follow the
// UTC+3 civil day.
func BuildRangeReport(txns []ledger.Transaction, settings ledger.Settings, start, end time.Time) RangeReport {
	rangeStart := trlocale.StartOfDay(start)
	rangeEnd := trlocale.EndOfDay(end)

	visible := ExcludeCategories(txns, settings.ExcludedFromReports)
	var inRange []ledger.Transaction
	for _, t := range visible {
		if t.Date.Before(rangeStart) || t.Date.After(rangeEnd) {
			continue
		}
		inRange = append(inRange, t)
	}

	income, expense := SumByType(inRange)
	r := RangeReport{
		Start:   rangeStart,
		End:     rangeEnd,
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}

	for day := rangeStart; !day.After(rangeEnd); day = day.AddDate(0, 0, 1) {
		point := DayPoint{Label: trlocale.FormatDate(day)}
		dayEnd := trlocale.EndOfDay(day)
		for _, t := range inRange {
			if t.Date.Before(day) || t.Date.After(dayEnd) {
				continue
			}
			switch t.Type {
			case ledger.TypeIncome:
				point.Income = point.Income.Add(t.Amount)
			case ledger.TypeExpense:
				point.Expense = point.Expense.Add(t.Amount)
			}
		}
		r.Days = append(r.Days, point)
	}

	var expenses []ledger.Transaction
	for _, t := range inRange {
		if t.Type == ledger.TypeExpense {
			expenses = append(expenses, t)
		}
	}
	byCategory := make(map[string][]ledger.Transaction)
	for _, g := range GroupByCategory(expenses) {
		share := CategoryShare{Category: g.Key, Total: g.Total, Count: g.Count}
		if expense.IsPositive() {
			share.Percent = g.Total.Div(expense).Mul(decimal.NewFromInt(100))
		}
		r.Categories = append(r.Categories, share)
	}
	for _, t := range expenses {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}
	for i := range r.Categories {
		r.Categories[i].Transactions = byCategory[r.Categories[i].Category]
	}
	return r
}

// MonthFigures is one month of a comparison report. Delta fields are percent
// changes against the previous month and are zero when that month has no
// comparable base.
type MonthFigures struct {
	Label        string          `json:"label"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Net          decimal.Decimal `json:"net"`
	IncomeDelta  decimal.Decimal `json:"incomeDelta"`
	ExpenseDelta decimal.Decimal `json:"expenseDelta"`
	NetDelta     decimal.Decimal `json:"netDelta"`
}

// BuildMonthlyComparison aggregates the last n civil months ending with the
// month containing now, oldest first. Income and expense deltas are computed
// only against a positive previous value; the net delta divides by the
// absolute previous net so sign flips still produce a finite change.
func BuildMonthlyComparison(txns []ledger.Transaction, settings ledger.Settings, n int, now time.Time) []MonthFigures {
	visible := ExcludeCategories(txns, settings.ExcludedFromReports)
	buckets := MonthBuckets(n, now)

	months := make([]MonthFigures, 0, len(buckets))
	for _, b := range buckets {
		var inMonth []ledger.Transaction
		for _, t := range visible {
			if b.Contains(t.Date) {
				inMonth = append(inMonth, t)
			}
		}
		income, expense := SumByType(inMonth)
		months = append(months, MonthFigures{
			Label:   b.Label,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		})
	}

	for i := 1; i < len(months); i++ {
		prev, cur := months[i-1], months[i]
		if prev.Income.IsPositive() {
			months[i].IncomeDelta = PercentChange(cur.Income, prev.Income)
		}
		if prev.Expense.IsPositive() {
			months[i].ExpenseDelta = PercentChange(cur.Expense, prev.Expense)
		}
		if !prev.Net.IsZero() {
			months[i].NetDelta = cur.Net.Sub(prev.Net).Div(prev.Net.Abs()).Mul(decimal.NewFromInt(100))
		}
	}
	return months
}

// TrendPoint is one month of a category trend.
type TrendPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// BuildCategoryTrend returns the monthly totals for a single category over
// the last n months. Report exclusions are deliberately not applied here so
// an excluded category can still be inspected directly.
func BuildCategoryTrend(txns []ledger.Transaction, category string, n int, now time.Time) []TrendPoint {
	buckets := MonthBuckets(n, now)
	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		point := TrendPoint{Label: b.Label}
		for _, t := range txns {
			if t.Category != category || !b.Contains(t.Date) {
				continue
			}
			point.Total = point.Total.Add(t.Amount)
			point.Count++
		}
		points = append(points, point)
	}
	return points
}

// BudgetLine is one category's budget versus actual spend for the current
// month.
type BudgetLine struct {
	Category    string          `json:"category"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization decimal.Decimal `json:"utilization"`
	Over        bool            `json:"over"`
}

// BudgetReport lists budget versus actual for one civil month.
type BudgetReport struct {
	MonthLabel string       `json:"monthLabel"`
	Lines      []BudgetLine `json:"lines"`
}

// BuildBudgetReport compares current-month expense totals against the
// configured category budgets. Categories with spend but no budget are
// included with a zero utilization.
func BuildBudgetReport(txns []ledger.Transaction, settings ledger.Settings, now time.Time) BudgetReport {
	monthStart := trlocale.StartOfMonth(now)
	monthEnd := trlocale.EndOfMonth(now)

	spent := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txns {
		if t.Type != ledger.TypeExpense || t.Date.Before(monthStart) || t.Date.After(monthEnd) {
			continue
		}
		if _, ok := spent[t.Category]; !ok {
			order = append(order, t.Category)
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}
	// Budgeted categories with no spend this month still get a line.
	for _, c := range settings.ExpenseCategories {
		if _, hasBudget := settings.CategoryBudgets[c]; !hasBudget {
			continue
		}
		if _, ok := spent[c]; !ok {
			order = append(order, c)
			spent[c] = decimal.Zero
		}
	}

	r := BudgetReport{MonthLabel: trlocale.MonthYearLabel(now)}
	for _, c := range order {
		budget := settings.CategoryBudgets[c]
		line := BudgetLine{
			Category:    c,
			Budget:      budget,
			Spent:       spent[c],
			Remaining:   budget.Sub(spent[c]),
			Utilization: BudgetUtilization(spent[c], budget),
			Over:        budget.IsPositive() && spent[c].GreaterThan(budget),
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

// YearlySummary aggregates a calendar year.
type YearlySummary struct {
	Year           int             `json:"year"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Net            decimal.Decimal `json:"net"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
	TopCategories  []Group         `json:"topCategories"`
	TopMethods     []Group         `json:"topMethods"`
	Months         []MonthFigures  `json:"months"`
}

// BuildYearlySummary aggregates the given calendar year in UTC+3 civil time.
// Monthly averages divide by twelve regardless of how much of the year has
// elapsed. Top categories rank expenses by total; top methods rank all
// transactions by count.
func BuildYearlySummary(txns []ledger.Transaction, settings ledger.Settings, year int) YearlySummary {
	visible := ExcludeCategories(txns, settings.ExcludedFromReports)

	var inYear []ledger.Transaction
	for _, t := range visible {
		if t.Date.In(trlocale.Zone).Year() == year {
			inYear = append(inYear, t)
		}
	}

	income, expense := SumByType(inYear)
	twelve := decimal.NewFromInt(12)
	s := YearlySummary{
		Year:           year,
		Income:         income,
		Expense:        expense,
		Net:            income.Sub(expense),
		MonthlyIncome:  income.Div(twelve),
		MonthlyExpense: expense.Div(twelve),
	}

	var expenses []ledger.Transaction
	for _, t := range inYear {
		if t.Type == ledger.TypeExpense {
			expenses = append(expenses, t)
		}
	}
	s.TopCategories = TopN(GroupByCategory(expenses), 5)
	s.TopMethods = TopNByCount(GroupByPaymentMethod(inYear), 5)

	for month := 1; month <= 12; month++ {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, trlocale.Zone)
		end := trlocale.EndOfMonth(start)
		var inMonth []ledger.Transaction
		for _, t := range inYear {
			if t.Date.Before(start) || t.Date.After(end) {
				continue
			}
			inMonth = append(inMonth, t)
		}
		mi, me := SumByType(inMonth)
		s.Months = append(s.Months, MonthFigures{
			Label:   trlocale.MonthYearLabel(start),
			Income:  mi,
			Expense: me,
			Net:     mi.Sub(me),
		})
	}
	return s
}
