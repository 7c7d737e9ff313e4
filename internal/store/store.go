// Package store defines the document-store contract the ledger core is
// written against. The real backing store is an external, key-partitioned
// cloud database; everything here is scoped by a caller-supplied user
// identifier and consumed through interfaces so implementations can be
// swapped (in-memory for tests, SQLite for local persistence).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/expense-ledger/internal/ledger"
)

// MaxBatchOps is the store's hard cap on operations per atomic batch.
// Callers that need headroom below it choose their own chunk size.
const MaxBatchOps = 500

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrBatchTooLarge is returned by Commit when a batch exceeds MaxBatchOps.
	ErrBatchTooLarge = errors.New("store: batch exceeds operation limit")
)

// Store bundles the per-user collections. Fields are interfaces so callers
// receive whatever implementation the composition root selected.
type Store struct {
	Transactions TransactionCollection
	Settings     SettingsCollection
}

// TransactionCollection is the per-user transactions collection.
//
// Add assigns a fresh opaque ID and, when the record carries a zero
// CreatedAt, stamps it with the current time. Update replaces every field
// except ID and CreatedAt, which are immutable for the record's lifetime.
// List returns the user's full ledger ordered by date ascending.
type TransactionCollection interface {
	Add(ctx context.Context, userID string, t ledger.Transaction) (ledger.Transaction, error)
	Get(ctx context.Context, userID, id string) (*ledger.Transaction, error)
	Update(ctx context.Context, userID, id string, t ledger.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]ledger.Transaction, error)
	NewBatch() Batch
}

// SettingsCollection is the per-user settings singleton document. Get
// returns ErrNotFound before first write; Set replaces the whole document,
// last writer wins.
type SettingsCollection interface {
	Get(ctx context.Context, userID string) (*ledger.Settings, error)
	Set(ctx context.Context, userID string, s ledger.Settings) error
}

// Batch accumulates writes and deletes and commits them as one atomic
// unit. Separate batches are independent: a failure between two commits
// leaves the earlier ones applied. Set with an empty transaction ID
// creates a new document with a store-assigned ID at commit time.
type Batch interface {
	Set(userID string, t ledger.Transaction)
	Delete(userID, id string)
	Ops() int
	Commit(ctx context.Context) error
}

// BatchChain spreads an unbounded stream of writes across batches of at
// most limit operations each. Deletes and sets share the same chain so
// their relative order is preserved. Commit applies the batches
// sequentially and stops at the first error; earlier batches stay
// committed.
type BatchChain struct {
	coll    TransactionCollection
	userID  string
	limit   int
	batches []Batch
	current Batch
}

func NewBatchChain(coll TransactionCollection, userID string, limit int) *BatchChain {
	if limit <= 0 || limit > MaxBatchOps {
		limit = MaxBatchOps
	}
	return &BatchChain{coll: coll, userID: userID, limit: limit}
}

func (c *BatchChain) next() Batch {
	if c.current == nil || c.current.Ops() >= c.limit {
		c.current = c.coll.NewBatch()
		c.batches = append(c.batches, c.current)
	}
	return c.current
}

// Set queues a write, rolling over to a fresh batch at the limit.
func (c *BatchChain) Set(t ledger.Transaction) {
	c.next().Set(c.userID, t)
}

// Delete queues a delete, rolling over to a fresh batch at the limit.
func (c *BatchChain) Delete(id string) {
	c.next().Delete(c.userID, id)
}

// Len reports how many batches the chain has opened.
func (c *BatchChain) Len() int {
	return len(c.batches)
}

// Commit commits the chain's batches in order and returns the first error.
func (c *BatchChain) Commit(ctx context.Context) error {
	for i, b := range c.batches {
		if err := b.Commit(ctx); err != nil {
			return fmt.Errorf("committing batch %d of %d: %w", i+1, len(c.batches), err)
		}
	}
	return nil
}
