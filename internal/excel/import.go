package excel

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-ledger/internal/ledger"
	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// Row is one accepted data row, ready to become a transaction. Line is the
// 1-based line number in the source file (the header is line 1).
type Row struct {
	Line          int
	Type          ledger.Type
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	Description   string
	Date          time.Time
}

// ParseResult separates the rows that passed per-row validation from the
// ones that were skipped, each skip carrying a human-readable reason.
type ParseResult struct {
	Rows  []Row
	Skips []string
}

// expected normalized header names, one per column of the wire format.
var expectedHeaders = []string{"id", "tarih", "saat", "kategori", "islem", "gelir", "gider", "bakiye", "tip", "aciklama"}

// Parse reads spreadsheet CSV text. A missing or malformed header fails
// the whole import; malformed data rows are skipped individually and
// reported in the result, never aborting the rest.
func Parse(data []byte) (*ParseResult, error) {
	lines := splitLines(string(data))
	if len(lines) < 2 {
		return nil, fmt.Errorf("excel: file is empty or not in the expected format")
	}

	columns, err := parseHeader(lines[0].text)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for _, line := range lines[1:] {
		row, skip := parseRow(line.number, line.text, columns)
		if skip != "" {
			result.Skips = append(result.Skips, skip)
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

type numberedLine struct {
	number int
	text   string
}

func splitLines(text string) []numberedLine {
	var out []numberedLine
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		out = append(out, numberedLine{number: i + 1, text: line})
	}
	return out
}

// parseHeader validates the header row and maps each expected column to
// its index. Column order is free; every expected column must be present.
func parseHeader(line string) (map[string]int, error) {
	line = strings.TrimPrefix(line, BOM)
	line = strings.TrimRight(line, ";")

	var found []string
	for _, cell := range strings.Split(line, ";") {
		cell = strings.Trim(strings.TrimSpace(cell), `"`)
		if cell != "" {
			found = append(found, cell)
		}
	}

	columns := make(map[string]int, len(found))
	for i, cell := range found {
		columns[NormalizeHeader(cell)] = i
	}

	var missing []string
	for _, want := range expectedHeaders {
		if _, ok := columns[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("excel: invalid file format: found columns: %s; missing columns: %s",
			strings.Join(found, ", "), strings.Join(missing, ", "))
	}
	return columns, nil
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var turkishASCII = strings.NewReplacer("ğ", "g", "ü", "u", "ş", "s", "ö", "o", "ç", "c")

// NormalizeHeader folds a header cell for matching: the Turkish dotted and
// dotless I pair is mapped explicitly (Unicode case folding gets it
// wrong), diacritics are stripped, then the remaining Turkish letters are
// substituted with their ASCII counterparts.
func NormalizeHeader(s string) string {
	s = strings.ReplaceAll(s, "İ", "I")
	s = strings.ReplaceAll(s, "ı", "i")
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)
	s = turkishASCII.Replace(s)
	return strings.TrimSpace(s)
}

// parseRow validates one data line. It returns either a Row or a skip
// reason; a non-empty reason means the line is rejected.
func parseRow(lineNo int, line string, columns map[string]int) (Row, string) {
	fields := tokenize(strings.TrimRight(line, ";"))
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	tarih := cell("tarih")
	saat := cell("saat")
	if saat == "" {
		saat = "00:00"
	}
	kategori := cell("kategori")
	islem := cell("islem")
	gelir := cell("gelir")
	gider := cell("gider")
	tip := cell("tip")
	aciklama := cell("aciklama")

	gelirAmount := trlocale.ParseCurrencyCell(gelir).Abs()
	giderAmount := trlocale.ParseCurrencyCell(gider).Abs()

	typ, amount := resolveTypeAmount(gelirAmount, giderAmount, tip)
	if typ == "" {
		return Row{}, fmt.Sprintf("row %d: could not resolve type (Gelir %q, Gider %q, Tip %q)", lineNo, gelir, gider, tip)
	}
	if !amount.IsPositive() {
		return Row{}, fmt.Sprintf("row %d: amount must be positive (got %s)", lineNo, amount.String())
	}
	if kategori == "" {
		return Row{}, fmt.Sprintf("row %d: missing category", lineNo)
	}
	if islem == "" {
		return Row{}, fmt.Sprintf("row %d: missing payment method", lineNo)
	}

	date, err := trlocale.ParseDate(tarih)
	if err != nil {
		return Row{}, fmt.Sprintf("row %d: invalid date %q (expected DD.MM.YYYY or YYYY-MM-DD)", lineNo, tarih)
	}
	hour, minute, err := trlocale.ParseClock(saat)
	if err != nil {
		return Row{}, fmt.Sprintf("row %d: invalid time %q (expected HH:MM)", lineNo, saat)
	}

	return Row{
		Line:          lineNo,
		Type:          typ,
		Amount:        amount,
		Category:      kategori,
		PaymentMethod: islem,
		Description:   aciklama,
		Date:          trlocale.CombineDateClock(date, hour, minute),
	}, ""
}

// resolveTypeAmount applies the precedence rule for the Gelir/Gider cell
// pair. When exactly one is nonzero it decides both type and amount; when
// both are nonzero the Tip text breaks the tie (income when empty); when
// both are zero the Tip text can still name a type, but the zero amount
// gets the row rejected by the caller.
func resolveTypeAmount(gelir, gider decimal.Decimal, tip string) (ledger.Type, decimal.Decimal) {
	tipLower := strings.ToLower(tip)
	switch {
	case gelir.IsPositive() && !gider.IsPositive():
		return ledger.TypeIncome, gelir
	case gider.IsPositive() && !gelir.IsPositive():
		return ledger.TypeExpense, gider
	case gelir.IsPositive() && gider.IsPositive():
		if strings.Contains(tipLower, "gider") {
			return ledger.TypeExpense, gider
		}
		return ledger.TypeIncome, gelir
	default:
		if strings.Contains(tipLower, "gelir") {
			return ledger.TypeIncome, decimal.Zero
		}
		if strings.Contains(tipLower, "gider") {
			return ledger.TypeExpense, decimal.Zero
		}
		return "", decimal.Zero
	}
}

// tokenize splits a data line on semicolons, honoring quoted fields. A
// doubled quote inside a quoted field is a literal quote.
func tokenize(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	chars := []rune(line)
	for i := 0; i < len(chars); i++ {
		ch := chars[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(chars) && chars[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ';' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, current.String())
	return fields
}
