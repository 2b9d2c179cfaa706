package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// TruncateDay returns the calendar date of t at UTC midnight. The date is
// read in t's own location so a local midnight never slips a day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeDuration returns the inclusive number of calendar days from start
// to end. Time of day is ignored.
func ComputeDuration(start, end time.Time) (int, error) {
	s, e := TruncateDay(start), TruncateDay(end)
	if e.Before(s) {
		return 0, ErrInvalidRange
	}
	// Unix seconds, not time.Duration, which saturates near 292 years.
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1, nil
}

// ComputePrice multiplies the daily rate by the number of days without rounding.
func ComputePrice(rate decimal.Decimal, days int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(days)))
}

// FormatAmount renders an amount for display with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// BookingName builds the display name shown in lists and calendar cells.
func BookingName(resourceName string, start, end time.Time) string {
	return resourceName + " - " + start.Format(time.DateOnly) + " to " + end.Format(time.DateOnly)
}
