package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

func TestBuildDashboard_HeadlineFigures(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, trlocale.Zone)
	txns := append(sampleTransactions(t),
		fixture(t, ledger.TypeExpense, "200", "Market", "Nakit", time.Date(2026, time.February, 10, 12, 0, 0, 0, trlocale.Zone)))

	d := BuildDashboard(txns, ledger.DefaultSettings(), now)

	assert.Equal(t, "1500", d.TotalIncome.String())
	assert.Equal(t, "900", d.TotalExpense.String())
	assert.Equal(t, "600", d.Net.String())
	assert.Equal(t, "Mart 2026", d.MonthLabel)
	assert.Equal(t, "1500", d.MonthIncome.String())
	assert.Equal(t, "700", d.MonthExpense.String())
	// Average is per expense transaction, not per day: 700 over 3 records.
	assert.Equal(t, "233.3333333333333333", d.AverageExpense.String())
	require.NotNil(t, d.HighestExpense)
	assert.Equal(t, "Kira", d.HighestExpense.Category)
}

func TestBuildDashboard_HighestExpenseIsCurrentMonthOnly(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, trlocale.Zone)
	txns := append(sampleTransactions(t),
		// A February expense larger than anything in March must not win.
		fixture(t, ledger.TypeExpense, "9000", "Tatil", "Kart", time.Date(2026, time.February, 10, 12, 0, 0, 0, trlocale.Zone)))

	d := BuildDashboard(txns, ledger.DefaultSettings(), now)

	require.NotNil(t, d.HighestExpense)
	assert.Equal(t, "Kira", d.HighestExpense.Category)
	assert.Equal(t, "500", d.HighestExpense.Amount.String())
}

func TestBuildDashboard_HonorsExclusions(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, trlocale.Zone)
	settings := ledger.DefaultSettings()
	settings.ExcludedFromReports = []string{"Kira"}

	d := BuildDashboard(sampleTransactions(t), settings, now)

	assert.Equal(t, "200", d.TotalExpense.String())
	require.NotNil(t, d.HighestExpense)
	assert.Equal(t, "Market", d.HighestExpense.Category)
}

func TestBuildDashboard_EmptyLedger(t *testing.T) {
	d := BuildDashboard(nil, ledger.DefaultSettings(), time.Now())

	assert.True(t, d.TotalIncome.IsZero())
	assert.True(t, d.AverageExpense.IsZero())
	assert.Nil(t, d.HighestExpense)
}

func TestBuildRangeReport_DailySeriesAndBreakdown(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, trlocale.Zone)
	end := time.Date(2026, time.March, 10, 0, 0, 0, 0, trlocale.Zone)

	r := BuildRangeReport(sampleTransactions(t), ledger.DefaultSettings(), start, end)

	assert.Equal(t, "1500", r.Income.String())
	assert.Equal(t, "700", r.Expense.String())
	assert.Equal(t, "800", r.Net.String())
	require.Len(t, r.Days, 10)
	assert.Equal(t, "01.03.2026", r.Days[0].Label)
	assert.Equal(t, "1500", r.Days[0].Income.String())
	assert.Equal(t, "500", r.Days[1].Expense.String())

	require.Len(t, r.Categories, 2)
	assert.Equal(t, "Kira", r.Categories[0].Category)
	assert.Equal(t, "Market", r.Categories[1].Category)
	require.Len(t, r.Categories[1].Transactions, 2)
	// 200 of 700 total expense.
	assert.Equal(t, "28.57", r.Categories[1].Percent.Round(2).String())
}

func TestBuildRangeReport_BoundsAreInclusiveDays(t *testing.T) {
	day := time.Date(2026, time.March, 5, 23, 30, 0, 0, trlocale.Zone)
	txns := []ledger.Transaction{fixture(t, ledger.TypeExpense, "10", "Market", "Nakit", day)}

	r := BuildRangeReport(txns, ledger.DefaultSettings(), day, day)

	assert.Equal(t, "10", r.Expense.String())
	require.Len(t, r.Days, 1)
}

func TestBuildMonthlyComparison_DeltaGuards(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, trlocale.Zone)
	txns := []ledger.Transaction{
		// January: no activity at all.
		// February: expense only.
		fixture(t, ledger.TypeExpense, "100", "Market", "Nakit", time.Date(2026, time.February, 5, 12, 0, 0, 0, trlocale.Zone)),
		// March: doubled expense plus income.
		fixture(t, ledger.TypeExpense, "200", "Market", "Nakit", time.Date(2026, time.March, 5, 12, 0, 0, 0, trlocale.Zone)),
		fixture(t, ledger.TypeIncome, "1000", "Maaş", "Havale", time.Date(2026, time.March, 6, 12, 0, 0, 0, trlocale.Zone)),
	}

	months := BuildMonthlyComparison(txns, ledger.DefaultSettings(), 3, now)

	require.Len(t, months, 3)
	// February against an all-zero January: every delta stays zero.
	assert.True(t, months[1].IncomeDelta.IsZero())
	assert.True(t, months[1].ExpenseDelta.IsZero())
	// March expense doubled against February.
	assert.Equal(t, "100", months[2].ExpenseDelta.String())
	// March income against zero February income stays guarded.
	assert.True(t, months[2].IncomeDelta.IsZero())
	// Net went from -100 to 800: delta uses the absolute previous net.
	assert.Equal(t, "900", months[2].NetDelta.String())
}

func TestBuildCategoryTrend_BypassesExclusions(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, trlocale.Zone)
	txns := []ledger.Transaction{
		fixture(t, ledger.TypeExpense, "500", "Kira", "Havale", time.Date(2026, time.February, 1, 12, 0, 0, 0, trlocale.Zone)),
		fixture(t, ledger.TypeExpense, "500", "Kira", "Havale", time.Date(2026, time.March, 1, 12, 0, 0, 0, trlocale.Zone)),
	}

	points := BuildCategoryTrend(txns, "Kira", 3, now)

	require.Len(t, points, 3)
	assert.True(t, points[0].Total.IsZero())
	assert.Equal(t, "500", points[1].Total.String())
	assert.Equal(t, "500", points[2].Total.String())
	assert.Equal(t, 1, points[2].Count)
}

func TestBuildBudgetReport_LinesAndGuards(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, trlocale.Zone)
	settings := ledger.DefaultSettings()
	settings.SetBudget("Market", decimal.RequireFromString("150"))
	settings.SetBudget("Yemek", decimal.RequireFromString("400"))

	r := BuildBudgetReport(sampleTransactions(t), settings, now)

	assert.Equal(t, "Mart 2026", r.MonthLabel)
	byCategory := map[string]BudgetLine{}
	for _, line := range r.Lines {
		byCategory[line.Category] = line
	}

	market := byCategory["Market"]
	assert.Equal(t, "200", market.Spent.String())
	assert.True(t, market.Over)
	assert.Equal(t, "133.33", market.Utilization.Round(2).String())

	// Budgeted but unspent category still shows up.
	yemek := byCategory["Yemek"]
	assert.True(t, yemek.Spent.IsZero())
	assert.False(t, yemek.Over)
	assert.True(t, yemek.Utilization.IsZero())

	// Spend without a budget keeps a zero utilization.
	kira := byCategory["Kira"]
	assert.Equal(t, "500", kira.Spent.String())
	assert.True(t, kira.Utilization.IsZero())
	assert.False(t, kira.Over)
}

func TestBuildYearlySummary(t *testing.T) {
	txns := append(sampleTransactions(t),
		fixture(t, ledger.TypeExpense, "300", "Kira", "Havale", time.Date(2025, time.December, 10, 12, 0, 0, 0, trlocale.Zone)))

	s := BuildYearlySummary(txns, ledger.DefaultSettings(), 2026)

	assert.Equal(t, "1500", s.Income.String())
	assert.Equal(t, "700", s.Expense.String())
	assert.Equal(t, "125", s.MonthlyIncome.String())
	require.Len(t, s.Months, 12)
	assert.Equal(t, "Mart 2026", s.Months[2].Label)
	assert.Equal(t, "700", s.Months[2].Expense.String())

	require.NotEmpty(t, s.TopCategories)
	assert.Equal(t, "Kira", s.TopCategories[0].Key)
	require.NotEmpty(t, s.TopMethods)
}
