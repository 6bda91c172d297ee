package model

import "time"

// DateLayout is the wire format for calendar dates. Availability days and
// bookings are keyed by calendar date, never by instant.
const DateLayout = "2006-01-02"

// NormalizeDate truncates t to midnight UTC so (studio, date) lookups
// compare equal regardless of the clock component the caller sent.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// StartOfDay returns midnight of t's calendar day in t's location. The
// availability filter and the reaper both cut on this boundary.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
