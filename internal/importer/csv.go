package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carson-networks/expense-ledger/internal/excel"
	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/logging"
	"github.com/carson-networks/expense-ledger/internal/store"
)

// Severity classifies the overall outcome of a CSV import for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// maxReportedReasons caps how many skip reasons the summary spells out.
const maxReportedReasons = 10

// CSVResult reports what happened to each row of a CSV import.
type CSVResult struct {
	Imported   int
	Duplicates int
	Skipped    int
	Reasons    []string
}

// Severity is error when nothing was imported despite skips, warning when
// some rows were skipped, success otherwise.
func (r *CSVResult) Severity() Severity {
	switch {
	case r.Imported == 0 && r.Skipped > 0:
		return SeverityError
	case r.Skipped > 0:
		return SeverityWarning
	default:
		return SeveritySuccess
	}
}

// Summary renders a human-readable account of the import, listing at most
// maxReportedReasons skip reasons.
func (r *CSVResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d transactions imported", r.Imported)
	if r.Duplicates > 0 {
		fmt.Fprintf(&b, ", %d duplicates ignored", r.Duplicates)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d rows skipped", r.Skipped)
		b.WriteString("\n\nSkipped rows:\n")
		reasons := r.Reasons
		extra := 0
		if len(reasons) > maxReportedReasons {
			extra = len(reasons) - maxReportedReasons
			reasons = reasons[:maxReportedReasons]
		}
		b.WriteString(strings.Join(reasons, "\n"))
		if extra > 0 {
			fmt.Fprintf(&b, "\n... and %d more", extra)
		}
	}
	return b.String()
}

// ImportCSV parses an exported spreadsheet file and writes its rows for the
// user. Rows that fail to parse or save are skipped with a reason rather than
// aborting the import. In merge mode, rows whose signature matches an
// existing transaction are counted as duplicates and ignored.
func (im *Importer) ImportCSV(ctx context.Context, userID string, data []byte, mode Mode) (*CSVResult, error) {
	if userID == "" {
		return nil, ledger.ErrSignInRequired
	}
	if mode != ModeMerge && mode != ModeReplace {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	logData := logging.NewLogData(im.log)
	endTimer := logData.AddTiming("duration")

	parsed, err := excel.Parse(data)
	if err != nil {
		return nil, err
	}

	var existingSigs map[string]struct{}
	if mode == ModeReplace {
		existing, err := im.store.Transactions.List(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("listing existing transactions: %w", err)
		}
		chain := store.NewBatchChain(im.store.Transactions, userID, im.batchLimit)
		for _, t := range existing {
			chain.Delete(t.ID)
		}
		if err := chain.Commit(ctx); err != nil {
			return nil, err
		}
	} else {
		existing, err := im.store.Transactions.List(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("listing existing transactions: %w", err)
		}
		existingSigs = ledger.SignatureSet(existing)
	}

	result := &CSVResult{
		Skipped: len(parsed.Skips),
		Reasons: append([]string(nil), parsed.Skips...),
	}
	now := time.Now()
	for _, row := range parsed.Rows {
		txn, err := ledger.NewTransaction(row.Type, row.Amount, row.Category, row.PaymentMethod, row.Description, row.Date)
		if err != nil {
			result.Skipped++
			result.Reasons = append(result.Reasons, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		if existingSigs != nil {
			if _, ok := existingSigs[txn.Signature()]; ok {
				result.Duplicates++
				continue
			}
		}
		txn.CreatedAt = now
		endStore := logData.AddToExistingTiming("storeDuration")
		_, err = im.store.Transactions.Add(ctx, userID, txn)
		endStore()
		if err != nil {
			result.Skipped++
			result.Reasons = append(result.Reasons, fmt.Sprintf("row %d: could not be saved: %v", row.Line, err))
			continue
		}
		result.Imported++
	}

	endTimer()
	logData.AddData("imported", result.Imported)
	logData.AddData("duplicates", result.Duplicates)
	logData.AddData("skipped", result.Skipped)
	logData.AddData("severity", result.Severity())
	logData.Log().Info("Importer.ImportCSV.Complete")
	return result, nil
}
