package trlocale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Zone is the fixed UTC+3 offset all civil day/month boundaries are
// computed in, regardless of the environment's local timezone.
var Zone = time.FixedZone("UTC+3", 3*60*60)

var monthNames = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthName returns the Turkish name for a month.
func MonthName(m time.Month) string {
	return monthNames[int(m)-1]
}

// MonthYearLabel renders the civil month/year of t, e.g. "Ocak 2026".
func MonthYearLabel(t time.Time) string {
	local := t.In(Zone)
	return fmt.Sprintf("%s %d", MonthName(local.Month()), local.Year())
}

// StartOfDay truncates t to the first instant of its civil day.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
}

// EndOfDay returns the last instant of t's civil day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// StartOfMonth truncates t to the first instant of its civil month.
func StartOfMonth(t time.Time) time.Time {
	local := t.In(Zone)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Zone)
}

// EndOfMonth returns the last instant of t's civil month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Millisecond)
}

// FormatDate renders the civil date of t as DD.MM.YYYY, the spreadsheet
// date format.
func FormatDate(t time.Time) string {
	return t.In(Zone).Format("02.01.2006")
}

// FormatClock renders the civil wall-clock time of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.In(Zone).Format("15:04")
}

// ParseDate accepts DD.MM.YYYY or YYYY-MM-DD and returns midnight of that
// civil day. Out-of-range components roll over the way calendar arithmetic
// does; anything else is an error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var parts []string
	var year, month, day int
	switch {
	case strings.Contains(s, "."):
		parts = strings.Split(s, ".")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("trlocale: invalid date %q", s)
		}
		day, month, year = atoi3(parts)
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("trlocale: invalid date %q", s)
		}
		year, month, day = atoi3(parts)
	default:
		return time.Time{}, fmt.Errorf("trlocale: invalid date %q", s)
	}
	if year <= 0 || month <= 0 || day <= 0 {
		return time.Time{}, fmt.Errorf("trlocale: invalid date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, Zone), nil
}

func atoi3(parts []string) (int, int, int) {
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	c, errC := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errA != nil || errB != nil || errC != nil {
		return 0, 0, 0
	}
	return a, b, c
}

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock validates an HH:MM string (hour 0-23, minute 0-59) and
// returns the components.
func ParseClock(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("trlocale: invalid clock %q", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

// CombineDateClock applies an HH:MM wall-clock time to a civil date.
func CombineDateClock(date time.Time, hour, minute int) time.Time {
	local := date.In(Zone)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, Zone)
}
