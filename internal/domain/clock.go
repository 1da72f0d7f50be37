package domain

import "time"

// Clock supplies the server's notion of "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return NormalizeTime(time.Now())
}

// FixedClock always returns the same instant. Set moves it.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time {
	return NormalizeTime(c.At)
}

func (c *FixedClock) Set(at time.Time) {
	c.At = at
}

// NormalizeTime converts t to UTC at millisecond precision, the resolution of the
// ISO-8601 wire format. Stored and compared timestamps are always normalized.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
