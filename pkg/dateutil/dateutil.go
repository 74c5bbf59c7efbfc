// Package dateutil provides the calendar-date and wall-clock primitives the
// scheduling engine is built on. Dates are timezone-naive calendar days
// exchanged as YYYY-MM-DD; clock values are naive local wall-clock times
// exchanged as HH:MM. Template day-of-week codes (Sunday=0..Saturday=6) are
// normalised to the canonical Weekday enum before any comparison.
package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

// Date is a timezone-naive calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a YYYY-MM-DD string, rejecting impossible dates such as
// February 30th.
func ParseDate(raw string) (Date, error) {
	if !isoDatePattern.MatchString(raw) {
		return Date{}, fmt.Errorf("invalid date format %q, expected YYYY-MM-DD", raw)
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	// time.Parse normalises overflow (2025-02-30 -> 2025-03-02); a
	// round-trip mismatch means the input named a day that does not exist.
	if t.Format("2006-01-02") != raw {
		return Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar date in the local timezone.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns the date at midnight UTC. Used only for arithmetic; the value
// carries no instant semantics.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return d.AddDays(1)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Equal reports whether both values name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d == other
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Weekday returns the canonical weekday of the date.
func (d Date) Weekday() Weekday {
	return weekdayFromTime(d.Time().Weekday())
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == Saturday || wd == Sunday
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (Date, Date) {
	first := Date{Year: year, Month: month, Day: 1}
	last := DateOf(first.Time().AddDate(0, 1, -1))
	return first, last
}
