// Package trlocale converts between Turkish-locale display strings and
// canonical decimal values, and owns the UTC+3 civil-time rules the rest of
// the system anchors to.
package trlocale

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencyGlyph is the lira sign used by the spreadsheet cell format.
const CurrencyGlyph = "₺"

// FormatNumber renders an amount for input display: dot as thousands
// separator, comma as decimal separator, always two decimal digits.
// 1234.5 becomes "1.234,50".
func FormatNumber(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// ParseNumber parses a human-entered amount in either Turkish or English
// notation and returns the canonical decimal. The boolean is false for
// empty, unparseable, or non-positive input; callers must reject those, not
// coerce them to zero.
func ParseNumber(input string) (decimal.Decimal, bool) {
	cleaned := stripSpaces(input)
	if cleaned == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(normalizeSeparators(cleaned))
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

// normalizeSeparators resolves the thousands/decimal ambiguity:
//   - both "." and "," present: dots are thousands, comma is the decimal;
//   - only "," present: decimal only when exactly two digits follow it;
//   - only "." present: decimal only when it is the sole dot with exactly
//     two digits following it.
func normalizeSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		if strings.LastIndex(s, ",") == len(s)-3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		if !(strings.Count(s, ".") == 1 && strings.LastIndex(s, ".") == len(s)-3) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatCurrencyCell renders a spreadsheet cell amount: the lira glyph
// followed by the absolute value with a comma decimal and no grouping.
// Zero renders as "₺0,00". A leading minus, when wanted, is the caller's
// job and sits outside the glyph.
func FormatCurrencyCell(amount decimal.Decimal) string {
	return CurrencyGlyph + strings.Replace(amount.Abs().StringFixed(2), ".", ",", 1)
}

// ParseCurrencyCell parses a spreadsheet cell amount such as "₺100,00",
// "-₺80,00" or "34.587,02". Unparseable or empty input yields zero; the
// sign of the result reflects a leading minus.
func ParseCurrencyCell(value string) decimal.Decimal {
	cleaned := stripSpaces(strings.ReplaceAll(value, CurrencyGlyph, ""))
	if cleaned == "" {
		return decimal.Zero
	}
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	parsed, err := decimal.NewFromString(normalizeSeparators(cleaned))
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return parsed.Neg()
	}
	return parsed
}
