package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/logging"
	"github.com/carson-networks/expense-ledger/internal/store"
)

// Mode selects how imported records interact with existing data.
type Mode string

const (
	// ModeMerge keeps existing transactions and skips incoming records whose
	// signature already exists.
	ModeMerge Mode = "merge"
	// ModeReplace deletes all existing transactions before writing the
	// incoming records.
	ModeReplace Mode = "replace"
)

// DefaultBatchLimit caps how many writes go into a single batch commit,
// leaving headroom below the store's hard limit.
const DefaultBatchLimit = 400

var ErrUnknownMode = errors.New("importer: unknown import mode")

// Importer writes reconciled transaction sets into the store in bounded
// batches.
type Importer struct {
	store      *store.Store
	log        *logrus.Logger
	batchLimit int
}

func New(st *store.Store, log *logrus.Logger, batchLimit int) *Importer {
	if batchLimit <= 0 || batchLimit > store.MaxBatchOps {
		batchLimit = DefaultBatchLimit
	}
	return &Importer{store: st, log: log, batchLimit: batchLimit}
}

// Import writes the given records for the user according to mode, then applies
// the optional settings patch. Writes are chunked into batches of at most the
// configured limit; batches commit sequentially and the first failure is
// returned. Earlier batches stay committed, so a failed import can leave a
// prefix of the records in place.
func (im *Importer) Import(ctx context.Context, userID string, records []ledger.Transaction, patch *ledger.SettingsPatch, mode Mode) error {
	if userID == "" {
		return ledger.ErrSignInRequired
	}
	if mode != ModeMerge && mode != ModeReplace {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	logData := logging.NewLogData(im.log)
	endTimer := logData.AddTiming("duration")
	defer endTimer()

	existing, err := im.store.Transactions.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing existing transactions: %w", err)
	}

	chain := store.NewBatchChain(im.store.Transactions, userID, im.batchLimit)
	var existingSigs map[string]struct{}
	if mode == ModeReplace {
		for _, t := range existing {
			chain.Delete(t.ID)
		}
		logData.AddData("deleted", len(existing))
	} else {
		existingSigs = ledger.SignatureSet(existing)
	}

	now := time.Now()
	written, skipped := 0, 0
	for _, rec := range records {
		if existingSigs != nil {
			if _, ok := existingSigs[rec.Signature()]; ok {
				skipped++
				continue
			}
		}
		rec.ID = ""
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		chain.Set(rec)
		written++
	}

	endCommit := logData.AddTiming("commits")
	err = chain.Commit(ctx)
	endCommit()
	logData.AddData("batches", chain.Len())
	logData.AddData("written", written)
	logData.AddData("skipped", skipped)
	if err != nil {
		logData.Log().WithError(err).Error("Importer.Import.Error")
		return err
	}

	if patch != nil {
		if err := im.applySettingsPatch(ctx, userID, patch); err != nil {
			// Transactions are already committed. The original client treated
			// a settings failure as non-fatal, so keep the import successful
			// and surface the problem in the log.
			logData.Log().WithError(err).Error("Importer.Import.SettingsError")
		}
	}

	logData.Log().Info("Importer.Import.Complete")
	return nil
}

func (im *Importer) applySettingsPatch(ctx context.Context, userID string, patch *ledger.SettingsPatch) error {
	current, err := im.store.Settings.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading settings: %w", err)
		}
		defaults := ledger.DefaultSettings()
		current = &defaults
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := im.store.Settings.Set(ctx, userID, merged); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
