package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/store"
)

// BackupVersion is written into every JSON export envelope.
const BackupVersion = "1.0"

var (
	ErrTransactionsNotArray = errors.New("importer: transactions must be an array")
	ErrSettingsNotObject    = errors.New("importer: settings must be an object")
)

// Backup is the JSON envelope produced by Export and accepted by ParseBackup.
// Dates are ISO-8601 strings and amounts plain numbers so the file stays
// readable and portable across tools.
type Backup struct {
	Version      string              `json:"version"`
	ExportDate   string              `json:"exportDate"`
	Transactions []BackupTransaction `json:"transactions"`
	Settings     *ledger.Settings    `json:"settings,omitempty"`
}

// BackupTransaction is the wire form of a single transaction inside a backup.
type BackupTransaction struct {
	ID            string      `json:"id,omitempty"`
	Type          string      `json:"type"`
	Amount        json.Number `json:"amount"`
	Category      string      `json:"category"`
	PaymentMethod string      `json:"paymentMethod"`
	Description   string      `json:"description,omitempty"`
	Date          string      `json:"date"`
	CreatedAt     string      `json:"createdAt,omitempty"`
}

const backupTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Export serializes the user's transactions and settings into a backup
// envelope. Missing settings fall back to the defaults so a restore always
// yields a usable document.
func (im *Importer) Export(ctx context.Context, userID string) (*Backup, error) {
	if userID == "" {
		return nil, ledger.ErrSignInRequired
	}
	txns, err := im.store.Transactions.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	settings, err := im.store.Settings.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		defaults := ledger.DefaultSettings()
		settings = &defaults
	}

	backup := &Backup{
		Version:      BackupVersion,
		ExportDate:   time.Now().UTC().Format(backupTimeLayout),
		Transactions: make([]BackupTransaction, 0, len(txns)),
		Settings:     settings,
	}
	for _, t := range txns {
		rec := BackupTransaction{
			ID:            t.ID,
			Type:          string(t.Type),
			Amount:        json.Number(t.Amount.String()),
			Category:      t.Category,
			PaymentMethod: t.PaymentMethod,
			Description:   t.Description,
			Date:          t.Date.UTC().Format(backupTimeLayout),
		}
		if !t.CreatedAt.IsZero() {
			rec.CreatedAt = t.CreatedAt.UTC().Format(backupTimeLayout)
		}
		backup.Transactions = append(backup.Transactions, rec)
	}
	return backup, nil
}

// ParseBackup validates the shape of a backup file and converts its records
// into domain transactions. Any malformed record aborts the whole parse so an
// import never leaves partial state behind.
func ParseBackup(data []byte) ([]ledger.Transaction, *ledger.SettingsPatch, error) {
	var envelope struct {
		Version      string          `json:"version"`
		Transactions json.RawMessage `json:"transactions"`
		Settings     json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("importer: invalid backup file: %w", err)
	}
	rawTxns := presentValue(envelope.Transactions)
	rawSettings := presentValue(envelope.Settings)
	if rawTxns != nil && rawTxns[0] != '[' {
		return nil, nil, ErrTransactionsNotArray
	}
	if rawSettings != nil && rawSettings[0] != '{' {
		return nil, nil, ErrSettingsNotObject
	}

	var records []BackupTransaction
	if rawTxns != nil {
		if err := json.Unmarshal(rawTxns, &records); err != nil {
			return nil, nil, fmt.Errorf("importer: invalid transactions: %w", err)
		}
	}
	txns := make([]ledger.Transaction, 0, len(records))
	for i, rec := range records {
		t, err := rec.toTransaction()
		if err != nil {
			return nil, nil, fmt.Errorf("importer: transaction %d: %w", i+1, err)
		}
		txns = append(txns, t)
	}

	var patch *ledger.SettingsPatch
	if rawSettings != nil {
		patch = &ledger.SettingsPatch{}
		if err := json.Unmarshal(rawSettings, patch); err != nil {
			return nil, nil, fmt.Errorf("importer: invalid settings: %w", err)
		}
	}
	return txns, patch, nil
}

func (rec BackupTransaction) toTransaction() (ledger.Transaction, error) {
	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid amount %q", rec.Amount.String())
	}
	date, err := parseBackupTime(rec.Date)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid date %q", rec.Date)
	}
	t := ledger.Transaction{
		Type:          ledger.Type(rec.Type),
		Amount:        amount,
		Category:      rec.Category,
		PaymentMethod: rec.PaymentMethod,
		Description:   rec.Description,
		Date:          date,
	}
	if rec.CreatedAt != "" {
		created, err := parseBackupTime(rec.CreatedAt)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("invalid createdAt %q", rec.CreatedAt)
		}
		t.CreatedAt = created
	}
	if err := t.Validate(); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func parseBackupTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// presentValue treats a missing key and an explicit JSON null the same: both
// mean "nothing to import" rather than a shape error.
func presentValue(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}
