package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
)

const testUser = "user-1"

func testTransaction(t *testing.T, amount string, date time.Time) ledger.Transaction {
	t.Helper()
	txn, err := ledger.NewTransaction(ledger.TypeExpense, decimal.RequireFromString(amount), "Market", "Nakit", "", date)
	require.NoError(t, err)
	return txn
}

func TestAdd_AssignsIDAndCreatedAt(t *testing.T) {
	st := New()
	ctx := context.Background()

	stored, err := st.Transactions.Add(ctx, testUser, testTransaction(t, "10", time.Now()))

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestGet_NotFound(t *testing.T) {
	st := New()

	_, err := st.Transactions.Get(context.Background(), testUser, "missing")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate_PreservesIDAndCreatedAt(t *testing.T) {
	st := New()
	ctx := context.Background()

	stored, err := st.Transactions.Add(ctx, testUser, testTransaction(t, "10", time.Now()))
	require.NoError(t, err)

	replacement := testTransaction(t, "25", time.Now())
	replacement.ID = "attempted-override"
	require.NoError(t, st.Transactions.Update(ctx, testUser, stored.ID, replacement))

	got, err := st.Transactions.Get(ctx, testUser, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(stored.CreatedAt))
	assert.Equal(t, "25", got.Amount.String())
}

func TestList_OrderedByDate(t *testing.T) {
	st := New()
	ctx := context.Background()
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 2} {
		_, err := st.Transactions.Add(ctx, testUser, testTransaction(t, "10", base.AddDate(0, 0, offset)))
		require.NoError(t, err)
	}

	list, err := st.Transactions.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].Date.Before(list[1].Date))
	assert.True(t, list[1].Date.Before(list[2].Date))
}

func TestList_IsolatedPerUser(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.Transactions.Add(ctx, "alice", testTransaction(t, "10", time.Now()))
	require.NoError(t, err)

	list, err := st.Transactions.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBatch_MixesSetsAndDeletes(t *testing.T) {
	st := New()
	ctx := context.Background()

	stored, err := st.Transactions.Add(ctx, testUser, testTransaction(t, "10", time.Now()))
	require.NoError(t, err)

	b := st.Transactions.NewBatch()
	b.Delete(testUser, stored.ID)
	b.Set(testUser, testTransaction(t, "20", time.Now()))
	b.Set(testUser, testTransaction(t, "30", time.Now()))
	assert.Equal(t, 3, b.Ops())

	require.NoError(t, b.Commit(ctx))

	list, err := st.Transactions.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, txn := range list {
		assert.NotEqual(t, stored.ID, txn.ID)
		assert.NotEmpty(t, txn.ID)
	}
}

func TestBatch_RejectsOversize(t *testing.T) {
	st := New()
	b := st.Transactions.NewBatch()
	for i := 0; i <= store.MaxBatchOps; i++ {
		b.Set(testUser, testTransaction(t, "1", time.Now()))
	}

	err := b.Commit(context.Background())

	assert.ErrorIs(t, err, store.ErrBatchTooLarge)
}

func TestSettings_GetBeforeFirstWrite(t *testing.T) {
	st := New()

	_, err := st.Settings.Get(context.Background(), testUser)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettings_SetThenGet(t *testing.T) {
	st := New()
	ctx := context.Background()

	s := ledger.DefaultSettings()
	s.Theme = "dark"
	require.NoError(t, st.Settings.Set(ctx, testUser, s))

	got, err := st.Settings.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)

	// Mutating the returned document must not leak into the store.
	got.Theme = "light"
	again, err := st.Settings.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "dark", again.Theme)
}

func TestOperations_HonorCancelledContext(t *testing.T) {
	st := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Transactions.Add(ctx, testUser, testTransaction(t, "10", time.Now()))
	assert.Error(t, err)

	_, err = st.Transactions.List(ctx, testUser)
	assert.Error(t, err)
}
