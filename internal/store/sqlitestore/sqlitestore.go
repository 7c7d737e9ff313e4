// Package sqlitestore persists the per-user collections in an embedded
// SQLite database. Documents keep the same shape as the cloud store:
// transactions are one row per document, the settings singleton is stored
// as a JSON document, and batches map onto SQL transactions.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
)

// Open opens (creating if needed) the SQLite file at path and returns the
// store backed by it. The schema must already be migrated; see Migrate.
func Open(path string) (*store.Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	// A single writer keeps batch commits serialized the way the
	// single-threaded event model expects.
	db.SetMaxOpenConns(1)
	return &store.Store{
		Transactions: &transactionCollection{db: db},
		Settings:     &settingsCollection{db: db},
	}, db, nil
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

const transactionColumns = "id, type, amount, category, payment_method, description, date, created_at"

type transactionCollection struct {
	db *sql.DB
}

func (c *transactionCollection) Add(ctx context.Context, userID string, t ledger.Transaction) (ledger.Transaction, error) {
	t.ID = newID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if err := insertTransaction(ctx, c.db, userID, t); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, userID string, t ledger.Transaction) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transactions (user_id, `+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, t.ID, string(t.Type), t.Amount.String(), t.Category, t.PaymentMethod,
		t.Description, encodeTime(t.Date), encodeTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlitestore: insert transaction: %w", err)
	}
	return nil
}

func (c *transactionCollection) Get(ctx context.Context, userID, id string) (*ledger.Transaction, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND id = ?`,
		userID, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *transactionCollection) Update(ctx context.Context, userID, id string, t ledger.Transaction) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE transactions
		 SET type = ?, amount = ?, category = ?, payment_method = ?, description = ?, date = ?
		 WHERE user_id = ? AND id = ?`,
		string(t.Type), t.Amount.String(), t.Category, t.PaymentMethod, t.Description,
		encodeTime(t.Date), userID, id)
	if err != nil {
		return fmt.Errorf("sqlitestore: update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *transactionCollection) Delete(ctx context.Context, userID, id string) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("sqlitestore: delete transaction: %w", err)
	}
	return nil
}

func (c *transactionCollection) List(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? ORDER BY date, created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (c *transactionCollection) NewBatch() store.Batch {
	return &batch{db: c.db}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (ledger.Transaction, error) {
	var t ledger.Transaction
	var typ, amount, date, createdAt string
	err := row.Scan(&t.ID, &typ, &amount, &t.Category, &t.PaymentMethod, &t.Description, &date, &createdAt)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.Type = ledger.Type(typ)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return ledger.Transaction{}, fmt.Errorf("sqlitestore: corrupt amount %q: %w", amount, err)
	}
	if t.Date, err = decodeTime(date); err != nil {
		return ledger.Transaction{}, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

type batchOp struct {
	userID string
	id     string
	set    *ledger.Transaction
}

type batch struct {
	db  *sql.DB
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

func (b *batch) Commit(ctx context.Context) error {
	if len(b.ops) > store.MaxBatchOps {
		return store.ErrBatchTooLarge
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin batch: %w", err)
	}
	for _, op := range b.ops {
		if op.set == nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM transactions WHERE user_id = ? AND id = ?`, op.userID, op.id); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("sqlitestore: batch delete: %w", err)
			}
			continue
		}
		t := *op.set
		if t.ID == "" {
			t.ID = newID()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		if err := insertTransaction(ctx, tx, op.userID, t); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type settingsCollection struct {
	db *sql.DB
}

func (c *settingsCollection) Get(ctx context.Context, userID string) (*ledger.Settings, error) {
	var doc []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT document FROM settings WHERE user_id = ? AND doc_id = 'default'`, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get settings: %w", err)
	}
	var s ledger.Settings
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("sqlitestore: corrupt settings document: %w", err)
	}
	return &s, nil
}

func (c *settingsCollection) Set(ctx context.Context, userID string, s ledger.Settings) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode settings: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (user_id, doc_id, document) VALUES (?, 'default', ?)`,
		userID, doc)
	if err != nil {
		return fmt.Errorf("sqlitestore: set settings: %w", err)
	}
	return nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlitestore: corrupt timestamp %q: %w", s, err)
	}
	return t, nil
}
