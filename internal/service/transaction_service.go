package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// TransactionInput carries the caller-editable fields of a transaction.
type TransactionInput struct {
	Type          ledger.Type
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	Description   string
	Date          time.Time
}

// Filter narrows a transaction listing. Zero-value fields match everything.
// Date bounds are widened to whole UTC+3 civil days.
type Filter struct {
	From          *time.Time
	To            *time.Time
	Type          ledger.Type
	Category      string
	PaymentMethod string
	Search        string
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	store *store.Store
	log   *logrus.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(st *store.Store, log *logrus.Logger) *TransactionService {
	return &TransactionService{store: st, log: log}
}

// Create validates the input and stores a new transaction, returning the
// stored record with its assigned ID.
func (s *TransactionService) Create(ctx context.Context, userID string, input TransactionInput) (ledger.Transaction, error) {
	if userID == "" {
		return ledger.Transaction{}, ledger.ErrSignInRequired
	}
	txn, err := ledger.NewTransaction(input.Type, input.Amount, input.Category, input.PaymentMethod, input.Description, input.Date)
	if err != nil {
		return ledger.Transaction{}, err
	}
	stored, err := s.store.Transactions.Add(ctx, userID, txn)
	if err != nil {
		return ledger.Transaction{}, err
	}
	s.log.WithFields(logrus.Fields{
		"id":   stored.ID,
		"type": stored.Type,
	}).Info("TransactionService.Create.Complete")
	return stored, nil
}

// Get retrieves a transaction by ID.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*ledger.Transaction, error) {
	if userID == "" {
		return nil, ledger.ErrSignInRequired
	}
	return s.store.Transactions.Get(ctx, userID, id)
}

// Update replaces the editable fields of an existing transaction. The
// record's ID and creation time are preserved.
func (s *TransactionService) Update(ctx context.Context, userID, id string, input TransactionInput) (ledger.Transaction, error) {
	if userID == "" {
		return ledger.Transaction{}, ledger.ErrSignInRequired
	}
	existing, err := s.store.Transactions.Get(ctx, userID, id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	txn, err := ledger.NewTransaction(input.Type, input.Amount, input.Category, input.PaymentMethod, input.Description, input.Date)
	if err != nil {
		return ledger.Transaction{}, err
	}
	txn.ID = existing.ID
	txn.CreatedAt = existing.CreatedAt
	if err := s.store.Transactions.Update(ctx, userID, id, txn); err != nil {
		return ledger.Transaction{}, err
	}
	return txn, nil
}

// Delete removes a transaction by ID.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ledger.ErrSignInRequired
	}
	return s.store.Transactions.Delete(ctx, userID, id)
}

// List returns the user's transactions matching the filter, ordered by date
// ascending.
func (s *TransactionService) List(ctx context.Context, userID string, filter Filter) ([]ledger.Transaction, error) {
	if userID == "" {
		return nil, ledger.ErrSignInRequired
	}
	txns, err := s.store.Transactions.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return applyFilter(txns, filter), nil
}

func applyFilter(txns []ledger.Transaction, f Filter) []ledger.Transaction {
	var from, to time.Time
	if f.From != nil {
		from = trlocale.StartOfDay(*f.From)
	}
	if f.To != nil {
		to = trlocale.EndOfDay(*f.To)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.From != nil && t.Date.Before(from) {
			continue
		}
		if f.To != nil && t.Date.After(to) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.PaymentMethod != "" && t.PaymentMethod != f.PaymentMethod {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
