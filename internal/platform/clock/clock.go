// internal/platform/clock/clock.go
package clock

import "time"

// Clock supplies the current calendar date so loan and overdue logic
// stays deterministic and testable. All dates are whole days at UTC
// midnight.
type Clock interface {
	Today() time.Time
}

// System reads the machine clock.
type System struct{}

func (System) Today() time.Time { return Midnight(time.Now()) }

// Fixed always reports the same date. Used by tests and tooling.
type Fixed struct {
	Date time.Time
}

func (f Fixed) Today() time.Time { return Midnight(f.Date) }

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates t to UTC midnight, the granularity all loan
// arithmetic runs at.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}
