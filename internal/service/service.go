// Package service holds the business logic between callers and the store:
// transaction CRUD with filtering, and the settings document with its
// cascading list edits.
package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-ledger/internal/store"
)

// Service bundles all business logic services.
type Service struct {
	Transactions *TransactionService
	Settings     *SettingsService
}

// Options tunes service behavior. The zero value uses the defaults.
type Options struct {
	// SettingsReadTimeout bounds how long a settings read may take before
	// the service falls back to defaults.
	SettingsReadTimeout time.Duration
	// RenameBatchLimit caps batch size for rename cascades.
	RenameBatchLimit int
}

// NewService creates a new Service over the given store.
func NewService(st *store.Store, log *logrus.Logger, opts Options) *Service {
	return &Service{
		Transactions: NewTransactionService(st, log),
		Settings:     NewSettingsService(st, log, opts),
	}
}
