// Package memstore is the in-memory document store. It backs unit tests
// and the default local configuration, and doubles as the reference for
// the batch-commit semantics the other implementations must match.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
)

type database struct {
	mu           sync.RWMutex
	transactions map[string]map[string]ledger.Transaction
	settings     map[string]ledger.Settings
}

// New builds an empty in-memory store.
func New() *store.Store {
	db := &database{
		transactions: map[string]map[string]ledger.Transaction{},
		settings:     map[string]ledger.Settings{},
	}
	return &store.Store{
		Transactions: &transactionCollection{db: db},
		Settings:     &settingsCollection{db: db},
	}
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

type transactionCollection struct {
	db *database
}

func (c *transactionCollection) Add(ctx context.Context, userID string, t ledger.Transaction) (ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Transaction{}, err
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	t.ID = newID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	c.db.userTransactions(userID)[t.ID] = t
	return t, nil
}

func (c *transactionCollection) Get(ctx context.Context, userID, id string) (*ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	t, ok := c.db.transactions[userID][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (c *transactionCollection) Update(ctx context.Context, userID, id string, t ledger.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	existing, ok := c.db.transactions[userID][id]
	if !ok {
		return store.ErrNotFound
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	c.db.transactions[userID][id] = t
	return nil
}

func (c *transactionCollection) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	delete(c.db.transactions[userID], id)
	return nil
}

func (c *transactionCollection) List(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	docs := c.db.transactions[userID]
	out := make([]ledger.Transaction, 0, len(docs))
	for _, t := range docs {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *transactionCollection) NewBatch() store.Batch {
	return &batch{db: c.db}
}

type batchOp struct {
	userID string
	id     string // delete when set is nil
	set    *ledger.Transaction
}

type batch struct {
	db  *database
	ops []batchOp
}

func (b *batch) Set(userID string, t ledger.Transaction) {
	b.ops = append(b.ops, batchOp{userID: userID, set: &t})
}

func (b *batch) Delete(userID, id string) {
	b.ops = append(b.ops, batchOp{userID: userID, id: id})
}

func (b *batch) Ops() int {
	return len(b.ops)
}

// Commit applies all operations under one lock hold, so the batch is
// atomic with respect to every other store access.
func (b *batch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.ops) > store.MaxBatchOps {
		return store.ErrBatchTooLarge
	}
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, op := range b.ops {
		if op.set == nil {
			delete(b.db.transactions[op.userID], op.id)
			continue
		}
		t := *op.set
		if t.ID == "" {
			t.ID = newID()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		b.db.userTransactions(op.userID)[t.ID] = t
	}
	return nil
}

type settingsCollection struct {
	db *database
}

func (c *settingsCollection) Get(ctx context.Context, userID string) (*ledger.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	s, ok := c.db.settings[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := s.Clone()
	return &clone, nil
}

func (c *settingsCollection) Set(ctx context.Context, userID string, s ledger.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	c.db.settings[userID] = s.Clone()
	return nil
}

func (db *database) userTransactions(userID string) map[string]ledger.Transaction {
	docs, ok := db.transactions[userID]
	if !ok {
		docs = map[string]ledger.Transaction{}
		db.transactions[userID] = docs
	}
	return docs
}
