package report

import (
	"time"

	"github.com/carson-networks/expense-ledger/internal/trlocale"
)

// MonthBucket is one civil month window with a display label.
type MonthBucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// MonthBuckets returns the last n civil months ending with the month that
// contains now, oldest first.
func MonthBuckets(n int, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 0, n)
	current := trlocale.StartOfMonth(now)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		buckets = append(buckets, MonthBucket{
			Start: start,
			End:   trlocale.EndOfMonth(start),
			Label: trlocale.MonthYearLabel(start),
		})
	}
	return buckets
}

// Contains reports whether t falls inside the bucket window.
func (b MonthBucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}
