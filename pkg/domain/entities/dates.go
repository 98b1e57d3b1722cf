package entities

import "time"

// Planning is day-granular. Every date in the model is a time.Time normalized
// to midnight UTC so that dates compare equal and are usable as map keys.

// Day constructs a normalized planning date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf normalizes an arbitrary timestamp to its planning date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the planning date n days after t (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return DayOf(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole number of days from a to b (b − a).
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// DateRange returns every planning date from start through end inclusive.
func DateRange(start, end time.Time) []time.Time {
	start, end = DayOf(start), DayOf(end)
	if end.Before(start) {
		return nil
	}
	dates := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}
