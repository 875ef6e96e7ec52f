package timeutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format used across the module.
const DateLayout = "2006-01-02"

// DurationHours returns the elapsed time between checkIn and checkOut in
// hours, rounded to two decimal places. It returns 0 when either timestamp
// is missing and never returns a negative value. Ordering is the caller's
// responsibility: the lifecycle service rejects checkOut < checkIn before
// this function is ever reached.
func DurationHours(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	hours := checkOut.Sub(*checkIn).Hours()
	if hours < 0 {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(hours).Round(2).Float64()
	return rounded
}

// DateOnly truncates t to its calendar date, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WithinPeriod reports whether date falls inside [start, end], inclusive on
// both ends. All three values are compared by calendar date.
func WithinPeriod(date, start, end time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(start)) && !d.After(DateOnly(end))
}

// MonthBounds returns the first and last calendar day of the month
// containing ref.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// PreviousMonthBounds returns the first and last calendar day of the month
// before the one containing ref.
func PreviousMonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
