package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

func expenseInput(amount, category, method, description string, date time.Time) TransactionInput {
	return TransactionInput{
		Type:          ledger.TypeExpense,
		Amount:        decimal.RequireFromString(amount),
		Category:      category,
		PaymentMethod: method,
		Description:   description,
		Date:          date,
	}
}

func TestCreate_Success(t *testing.T) {
	svc, _ := newTestService(t)

	txn, err := svc.Transactions.Create(context.Background(), testUser,
		expenseInput("80.50", "Market", "Kredi Kartı", "haftalık", time.Date(2026, time.March, 2, 12, 0, 0, 0, trlocale.Zone)))

	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.False(t, txn.CreatedAt.IsZero())
}

func TestCreate_ValidationError(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transactions.Create(context.Background(), testUser,
		expenseInput("80.50", "  ", "Nakit", "", time.Now()))

	assert.ErrorIs(t, err, ledger.ErrMissingCategory)
}

func TestCreate_RequiresSignIn(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transactions.Create(context.Background(), "",
		expenseInput("10", "Market", "Nakit", "", time.Now()))

	assert.ErrorIs(t, err, ledger.ErrSignInRequired)
}

func TestUpdate_PreservesIdentityAndCreation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Transactions.Create(ctx, testUser,
		expenseInput("10", "Market", "Nakit", "ilk", time.Date(2026, time.March, 2, 12, 0, 0, 0, trlocale.Zone)))
	require.NoError(t, err)

	updated, err := svc.Transactions.Update(ctx, testUser, created.ID,
		expenseInput("15", "Yemek", "Nakit", "düzeltme", created.Date))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "15", updated.Amount.String())
	assert.Equal(t, "Yemek", updated.Category)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transactions.Update(context.Background(), testUser, "missing",
		expenseInput("15", "Market", "Nakit", "", time.Now()))

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete_RemovesRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Transactions.Create(ctx, testUser,
		expenseInput("10", "Market", "Nakit", "", time.Now()))
	require.NoError(t, err)

	require.NoError(t, svc.Transactions.Delete(ctx, testUser, created.ID))

	_, err = svc.Transactions.Get(ctx, testUser, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func seedListFixture(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	inputs := []TransactionInput{
		{Type: ledger.TypeIncome, Amount: decimal.RequireFromString("1500"), Category: "Maaş", PaymentMethod: "Havale", Description: "mart maaşı", Date: time.Date(2026, time.March, 1, 9, 0, 0, 0, trlocale.Zone)},
		expenseInput("80", "Market", "Kredi Kartı", "haftalık alışveriş", time.Date(2026, time.March, 5, 18, 0, 0, 0, trlocale.Zone)),
		expenseInput("40", "Yemek", "Nakit", "öğle yemeği", time.Date(2026, time.March, 10, 13, 0, 0, 0, trlocale.Zone)),
		expenseInput("60", "Market", "Nakit", "kahvaltılık", time.Date(2026, time.April, 2, 10, 0, 0, 0, trlocale.Zone)),
	}
	for _, input := range inputs {
		_, err := svc.Transactions.Create(ctx, testUser, input)
		require.NoError(t, err)
	}
}

func TestList_FiltersByDateRange(t *testing.T) {
	svc, _ := newTestService(t)
	seedListFixture(t, svc)

	from := time.Date(2026, time.March, 5, 23, 0, 0, 0, trlocale.Zone)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, trlocale.Zone)

	// Bounds widen to whole civil days, so the March 5 evening purchase is in.
	list, err := svc.Transactions.List(context.Background(), testUser, Filter{From: &from, To: &to})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Market", list[0].Category)
	assert.Equal(t, "Yemek", list[1].Category)
}

func TestList_FiltersByTypeCategoryMethod(t *testing.T) {
	svc, _ := newTestService(t)
	seedListFixture(t, svc)
	ctx := context.Background()

	list, err := svc.Transactions.List(ctx, testUser, Filter{Type: ledger.TypeIncome})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Maaş", list[0].Category)

	list, err = svc.Transactions.List(ctx, testUser, Filter{Category: "Market"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.Transactions.List(ctx, testUser, Filter{Category: "Market", PaymentMethod: "Nakit"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestList_SearchMatchesDescription(t *testing.T) {
	svc, _ := newTestService(t)
	seedListFixture(t, svc)

	list, err := svc.Transactions.List(context.Background(), testUser, Filter{Search: "Haftalık alış"})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "haftalık alışveriş", list[0].Description)
}
