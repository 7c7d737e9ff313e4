// Package excel reads and writes the semicolon-delimited, BOM-prefixed
// spreadsheet format the product exchanges with Excel. The column set and
// its quirks (trailing double semicolon, zero-currency placeholder in the
// opposite column) are part of the wire format and are preserved
// byte-for-byte so previously exported files keep round-tripping.
package excel

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// BOM prefixes the output so Excel detects UTF-8.
const BOM = "\uFEFF"

// Header is the exact exported header row, before the trailing ";;".
const Header = "ID;Tarih;Saat;Kategori;İşlem;Gelir;Gider;Bakiye;Tip;Açıklama"

// Export renders the full ledger as spreadsheet CSV. Transactions are
// ordered by date ascending and the Bakiye column carries the running
// balance over that order: income adds, expense subtracts.
func Export(txns []ledger.Transaction) []byte {
	sorted := append([]ledger.Transaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, Header+";;")

	zeroCell := trlocale.FormatCurrencyCell(decimal.Zero)
	balance := decimal.Zero
	for _, t := range sorted {
		gelir, gider := zeroCell, zeroCell
		if t.Type == ledger.TypeIncome {
			gelir = trlocale.FormatCurrencyCell(t.Amount)
			balance = balance.Add(t.Amount)
		} else {
			gider = "-" + trlocale.FormatCurrencyCell(t.Amount)
			balance = balance.Sub(t.Amount)
		}

		tip := "Gider"
		if t.Type == ledger.TypeIncome {
			tip = "Gelir"
		}

		row := []string{
			t.ID,
			trlocale.FormatDate(t.Date),
			trlocale.FormatClock(t.Date),
			escapeField(t.Category),
			escapeField(t.PaymentMethod),
			gelir,
			gider,
			trlocale.FormatCurrencyCell(balance),
			tip,
			escapeField(t.Description),
		}
		lines = append(lines, strings.Join(row, ";")+";;")
	}

	return []byte(BOM + strings.Join(lines, "\n"))
}

// escapeField quotes a free-text field when it contains the delimiter, a
// quote, or a newline, doubling interior quotes.
func escapeField(field string) string {
	if strings.ContainsAny(field, ";\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
