package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/logging"
	"github.com/carson-networks/expense-ledger/internal/store"
)

const (
	defaultSettingsReadTimeout = 5 * time.Second
	defaultRenameBatchLimit    = 400
)

// SettingsService manages the per-user settings document: category and
// payment method lists, budgets, report exclusions and theme. Renames
// cascade into stored transactions so historic records keep matching the
// lists.
type SettingsService struct {
	store            *store.Store
	log              *logrus.Logger
	readTimeout      time.Duration
	renameBatchLimit int
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(st *store.Store, log *logrus.Logger, opts Options) *SettingsService {
	timeout := opts.SettingsReadTimeout
	if timeout <= 0 {
		timeout = defaultSettingsReadTimeout
	}
	limit := opts.RenameBatchLimit
	if limit <= 0 || limit > store.MaxBatchOps {
		limit = defaultRenameBatchLimit
	}
	return &SettingsService{store: st, log: log, readTimeout: timeout, renameBatchLimit: limit}
}

// Get returns the user's settings. On first access the defaults are
// persisted and returned. A read that exceeds the configured timeout fails
// with the timeout error; the stored document stays untouched so a later
// write cannot replace it with defaults.
func (s *SettingsService) Get(ctx context.Context, userID string) (ledger.Settings, error) {
	if userID == "" {
		return ledger.Settings{}, ledger.ErrSignInRequired
	}
	readCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	current, err := s.store.Settings.Get(readCtx, userID)
	switch {
	case err == nil:
		return *current, nil
	case errors.Is(err, store.ErrNotFound):
		defaults := ledger.DefaultSettings()
		if err := s.store.Settings.Set(ctx, userID, defaults); err != nil {
			return ledger.Settings{}, fmt.Errorf("persisting default settings: %w", err)
		}
		return defaults, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		s.log.WithField("timeout", s.readTimeout.String()).
			Warn("SettingsService.Get.Timeout")
		return ledger.Settings{}, fmt.Errorf("settings read timed out after %s: %w", s.readTimeout, err)
	default:
		return ledger.Settings{}, err
	}
}

// Update replaces the whole settings document.
func (s *SettingsService) Update(ctx context.Context, userID string, settings ledger.Settings) error {
	if userID == "" {
		return ledger.ErrSignInRequired
	}
	return s.store.Settings.Set(ctx, userID, settings)
}

// AddCategory appends a new category to the list for the given type.
func (s *SettingsService) AddCategory(ctx context.Context, userID string, typ ledger.Type, name string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.AddCategory(typ, name)
	})
}

// RenameCategory renames a category and rewrites every stored transaction of
// that type still carrying the old name.
func (s *SettingsService) RenameCategory(ctx context.Context, userID string, typ ledger.Type, oldName, newName string) error {
	err := s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.RenameCategory(typ, oldName, newName)
	})
	if err != nil {
		return err
	}
	return s.cascadeRename(ctx, userID, typ, func(t *ledger.Transaction) bool {
		if t.Category != oldName {
			return false
		}
		t.Category = newName
		return true
	})
}

// DeleteCategory removes a category. Its budget and report exclusion go with
// it; existing transactions keep the name.
func (s *SettingsService) DeleteCategory(ctx context.Context, userID string, typ ledger.Type, name string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.RemoveCategory(typ, name)
	})
}

// AddMethod appends a new payment method to the list for the given type.
func (s *SettingsService) AddMethod(ctx context.Context, userID string, typ ledger.Type, name string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.AddMethod(typ, name)
	})
}

// RenameMethod renames a payment method and rewrites every stored
// transaction of that type still carrying the old name.
func (s *SettingsService) RenameMethod(ctx context.Context, userID string, typ ledger.Type, oldName, newName string) error {
	err := s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.RenameMethod(typ, oldName, newName)
	})
	if err != nil {
		return err
	}
	return s.cascadeRename(ctx, userID, typ, func(t *ledger.Transaction) bool {
		if t.PaymentMethod != oldName {
			return false
		}
		t.PaymentMethod = newName
		return true
	})
}

// DeleteMethod removes a payment method from the list for the given type.
func (s *SettingsService) DeleteMethod(ctx context.Context, userID string, typ ledger.Type, name string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		return settings.RemoveMethod(typ, name)
	})
}

// SetBudget sets the monthly budget for a category. Non-positive amounts
// remove the entry.
func (s *SettingsService) SetBudget(ctx context.Context, userID, category string, amount decimal.Decimal) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		settings.SetBudget(category, amount)
		return nil
	})
}

// RemoveBudget removes the budget entry for a category.
func (s *SettingsService) RemoveBudget(ctx context.Context, userID, category string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		settings.RemoveBudget(category)
		return nil
	})
}

// SetExcludedCategories replaces the list of categories hidden from reports.
func (s *SettingsService) SetExcludedCategories(ctx context.Context, userID string, categories []string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		settings.ExcludedFromReports = append([]string(nil), categories...)
		return nil
	})
}

// SetTheme stores the UI theme preference.
func (s *SettingsService) SetTheme(ctx context.Context, userID, theme string) error {
	return s.mutate(ctx, userID, func(settings *ledger.Settings) error {
		settings.Theme = theme
		return nil
	})
}

// mutate loads the settings, applies fn to a copy and writes the result
// back. Last writer wins; there is no optimistic concurrency on the
// document.
func (s *SettingsService) mutate(ctx context.Context, userID string, fn func(*ledger.Settings) error) error {
	if userID == "" {
		return ledger.ErrSignInRequired
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	updated := current.Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	return s.store.Settings.Set(ctx, userID, updated)
}

// cascadeRename rewrites all transactions of the given type that apply
// matches, in bounded batches. apply mutates the record in place and reports
// whether it changed.
func (s *SettingsService) cascadeRename(ctx context.Context, userID string, typ ledger.Type, apply func(*ledger.Transaction) bool) error {
	logData := logging.NewLogData(s.log)
	endTimer := logData.AddTiming("duration")
	defer endTimer()

	txns, err := s.store.Transactions.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	chain := store.NewBatchChain(s.store.Transactions, userID, s.renameBatchLimit)
	updated := 0
	for i := range txns {
		if txns[i].Type != typ {
			continue
		}
		if !apply(&txns[i]) {
			continue
		}
		chain.Set(txns[i])
		updated++
	}
	if updated == 0 {
		return nil
	}
	if err := chain.Commit(ctx); err != nil {
		return fmt.Errorf("rewriting transactions: %w", err)
	}
	logData.AddData("updated", updated)
	logData.AddData("batches", chain.Len())
	logData.Log().Info("SettingsService.CascadeRename.Complete")
	return nil
}
