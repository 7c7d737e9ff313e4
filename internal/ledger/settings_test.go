package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategory_RejectsDuplicateAndEmpty(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.AddCategory(TypeExpense, "Abonelikler"))
	assert.Contains(t, s.ExpenseCategories, "Abonelikler")

	assert.ErrorIs(t, s.AddCategory(TypeExpense, "Abonelikler"), ErrDuplicateName)
	assert.ErrorIs(t, s.AddCategory(TypeExpense, "   "), ErrEmptyName)
}

func TestRenameCategory_PreservesPosition(t *testing.T) {
	s := DefaultSettings()
	idx := -1
	for i, c := range s.ExpenseCategories {
		if c == "Market" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)

	require.NoError(t, s.RenameCategory(TypeExpense, "Market", "Gıda"))
	assert.Equal(t, "Gıda", s.ExpenseCategories[idx])
	assert.NotContains(t, s.ExpenseCategories, "Market")

	assert.ErrorIs(t, s.RenameCategory(TypeExpense, "Yok", "Birşey"), ErrUnknownName)
	assert.ErrorIs(t, s.RenameCategory(TypeExpense, "Kira", "Gıda"), ErrDuplicateName)
}

func TestRemoveCategory_CascadesExclusionsAndBudgets(t *testing.T) {
	s := DefaultSettings()
	s.ExcludedFromReports = []string{"Kira"}
	s.SetBudget("Kira", decimal.RequireFromString("5000"))

	require.NoError(t, s.RemoveCategory(TypeExpense, "Kira"))

	assert.NotContains(t, s.ExpenseCategories, "Kira")
	assert.False(t, s.IsExcluded("Kira"))
	assert.NotContains(t, s.CategoryBudgets, "Kira")
}

func TestSetBudget_PrunesNonPositive(t *testing.T) {
	s := DefaultSettings()

	s.SetBudget("Market", decimal.RequireFromString("2500"))
	assert.True(t, s.CategoryBudgets["Market"].Equal(decimal.RequireFromString("2500")))

	s.SetBudget("Market", decimal.Zero)
	assert.NotContains(t, s.CategoryBudgets, "Market")

	s.SetBudget("Yemek", decimal.RequireFromString("-10"))
	assert.NotContains(t, s.CategoryBudgets, "Yemek")
}

func TestSettingsPatch_ShallowMerge(t *testing.T) {
	s := DefaultSettings()
	s.Theme = "dark"

	newCategories := []string{"Kira", "Market"}
	patch := SettingsPatch{ExpenseCategories: &newCategories}
	patch.Apply(&s)

	assert.Equal(t, newCategories, s.ExpenseCategories)
	// Untouched keys keep their stored values.
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, DefaultSettings().IncomeCategories, s.IncomeCategories)
}

func TestClone_DoesNotAlias(t *testing.T) {
	s := DefaultSettings()
	s.SetBudget("Market", decimal.RequireFromString("1000"))

	clone := s.Clone()
	clone.ExpenseCategories[0] = "Değişti"
	clone.SetBudget("Market", decimal.RequireFromString("9999"))

	assert.NotEqual(t, s.ExpenseCategories[0], clone.ExpenseCategories[0])
	assert.True(t, s.CategoryBudgets["Market"].Equal(decimal.RequireFromString("1000")))
}
