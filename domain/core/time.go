package core

import (
	"fmt"
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// Day identifies a calendar day in UTC. All per-day aggregation and
// persistence keys on Day, never on raw timestamps.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf truncates a time.Time to its UTC calendar day
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{Year: u.Year(), Month: u.Month(), Date: u.Day()}
}

// ParseDay parses a YYYY-MM-DD string into a Day
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Start returns midnight UTC at the beginning of the day
func (d Day) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC at the beginning of the next day
func (d Day) End() time.Time {
	return d.Start().AddDate(0, 0, 1)
}

// AddDays returns the day n calendar days later (n may be negative)
func (d Day) AddDays(n int) Day {
	return DayOf(d.Start().AddDate(0, 0, n))
}

// Before returns true if d is earlier than other
func (d Day) Before(other Day) bool {
	return d.Start().Before(other.Start())
}

// Equal returns true if both values identify the same calendar day
func (d Day) Equal(other Day) bool {
	return d == other
}

// Contains reports whether t falls within the day
func (d Day) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(d.Start()) && u.Before(d.End())
}

// String returns the YYYY-MM-DD representation
func (d Day) String() string {
	return d.Start().Format("2006-01-02")
}

// JSON marshaling for Day uses the YYYY-MM-DD form
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid day %s", s)
	}
	day, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// DaysBetween counts whole days from a to b (negative when b precedes a)
func DaysBetween(a, b Day) int {
	return int(b.Start().Sub(a.Start()).Hours() / 24)
}
