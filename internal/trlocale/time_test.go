package trlocale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_TurkishFormat(t *testing.T) {
	parsed, err := ParseDate("15.03.2026")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, Zone), parsed)
}

func TestParseDate_ISOFormat(t *testing.T) {
	parsed, err := ParseDate("2026-03-15")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, Zone), parsed)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "15/03/2026", "15.03", "aa.bb.cccc", "0.3.2026"} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseClock_Bounds(t *testing.T) {
	hour, minute, err := ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	hour, minute, err = ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 5, minute)

	for _, input := range []string{"24:00", "12:60", "noon", ""} {
		_, _, err := ParseClock(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDayBoundaries_UseFixedOffset(t *testing.T) {
	// 22:30 UTC is already the next civil day at UTC+3.
	instant := time.Date(2026, time.January, 10, 22, 30, 0, 0, time.UTC)

	start := StartOfDay(instant)
	assert.Equal(t, time.Date(2026, time.January, 11, 0, 0, 0, 0, Zone), start)

	end := EndOfDay(instant)
	assert.Equal(t, time.Date(2026, time.January, 11, 23, 59, 59, 999000000, Zone), end)
}

func TestMonthBoundaries(t *testing.T) {
	instant := time.Date(2026, time.February, 14, 12, 0, 0, 0, Zone)

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, Zone), StartOfMonth(instant))
	assert.Equal(t, time.Date(2026, time.February, 28, 23, 59, 59, 999000000, Zone), EndOfMonth(instant))
}

func TestMonthYearLabel_Turkish(t *testing.T) {
	assert.Equal(t, "Ocak 2026", MonthYearLabel(time.Date(2026, time.January, 5, 0, 0, 0, 0, Zone)))
	assert.Equal(t, "Aralık 2025", MonthYearLabel(time.Date(2025, time.December, 31, 12, 0, 0, 0, Zone)))
}

func TestCombineDateClock(t *testing.T) {
	date, err := ParseDate("01.06.2026")
	require.NoError(t, err)

	combined := CombineDateClock(date, 14, 45)
	assert.Equal(t, time.Date(2026, time.June, 1, 14, 45, 0, 0, Zone), combined)
}
