package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// dateLayouts are the formats accepted for dates coming over the API
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD date (UTC midnight)
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
}

// ElapsedDays returns the absolute distance between two instants in days,
// rounded up. A partial day counts as a full one.
func ElapsedDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// DaysSince returns the whole days elapsed from since to now, rounded down.
// It is negative when since lies in the future.
func DaysSince(since, now time.Time) int {
	return int(math.Floor(float64(now.Sub(since)) / float64(day)))
}

// IsDateOverdue checks if a date is before now
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Money formats an amount with two fractional digits
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
