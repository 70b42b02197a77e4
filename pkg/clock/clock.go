package clock

import "time"

// Clock provides the server's notion of "now" and "today".
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type systemClock struct{}

// New returns a clock backed by the local wall clock.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Today() time.Time {
	return DateOf(time.Now())
}

type fixedClock struct {
	now time.Time
}

// Fixed returns a clock frozen at t. Useful in tests and the seeder.
func Fixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func (c fixedClock) Today() time.Time {
	return DateOf(c.now)
}

// DateOf drops the time-of-day and location of t, keeping its local
// calendar date as midnight UTC so dates compare without zone effects.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

const DateLayout = "2006-01-02"
