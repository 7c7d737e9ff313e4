package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes income from expense. The sign of a transaction is
// always carried here, never by a negative amount.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ErrSignInRequired is returned by any operation invoked without a signed-in
// user, before the store is touched.
var ErrSignInRequired = errors.New("ledger: sign-in required")

var (
	ErrInvalidType     = errors.New("ledger: invalid transaction type")
	ErrInvalidAmount   = errors.New("ledger: amount must be a positive decimal")
	ErrMissingCategory = errors.New("ledger: category is required")
	ErrMissingMethod   = errors.New("ledger: payment method is required")
	ErrInvalidDate     = errors.New("ledger: a valid date is required")
)

// Transaction is a single financial event. ID is assigned by the store on
// creation and stays stable for the record's lifetime. Date is stored with
// minute precision; CreatedAt is set once and never updated.
type Transaction struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"paymentMethod"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewTransaction validates and builds a transaction. The date is truncated
// to the minute; seconds and below are dropped on entry.
func NewTransaction(typ Type, amount decimal.Decimal, category, paymentMethod, description string, date time.Time) (Transaction, error) {
	if !typ.Valid() {
		return Transaction{}, ErrInvalidType
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return Transaction{}, ErrMissingCategory
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return Transaction{}, ErrMissingMethod
	}
	if date.IsZero() {
		return Transaction{}, ErrInvalidDate
	}
	return Transaction{
		Type:          typ,
		Amount:        amount,
		Category:      strings.TrimSpace(category),
		PaymentMethod: strings.TrimSpace(paymentMethod),
		Description:   strings.TrimSpace(description),
		Date:          date.Truncate(time.Minute),
	}, nil
}

// Validate re-checks the invariants on an already-built transaction,
// typically one decoded from an external payload.
func (t Transaction) Validate() error {
	_, err := NewTransaction(t.Type, t.Amount, t.Category, t.PaymentMethod, t.Description, t.Date)
	return err
}

// isoDate renders a timestamp the way the JSON export does, millisecond
// precision in UTC. Signatures depend on this staying stable.
func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Signature is the content identity used by merge-mode import dedup. Two
// transactions with the same signature are considered the same record.
// Description is intentionally part of the tuple: records differing only in
// an edited description count as distinct.
func (t Transaction) Signature() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", isoDate(t.Date), t.Amount.String(), t.Category, t.Type, t.Description)
}

// SignatureSet indexes a transaction list by content signature.
func SignatureSet(txns []Transaction) map[string]struct{} {
	set := make(map[string]struct{}, len(txns))
	for _, t := range txns {
		set[t.Signature()] = struct{}{}
	}
	return set
}
