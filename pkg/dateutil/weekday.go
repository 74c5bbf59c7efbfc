package dateutil

import (
	"fmt"
	"time"
)

// Weekday is the canonical day-of-week enum, Monday-first. Availability
// templates store Sunday=0..Saturday=6, which must be converted here
// before it is compared against a date's weekday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

// String returns the upper-case English name.
func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WEEKDAY(%d)", int(w))
}

// Valid reports whether w names one of the seven days.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// SundayZero returns the Sunday=0..Saturday=6 code used by availability
// templates.
func (w Weekday) SundayZero() int {
	if w == Sunday {
		return 0
	}
	return int(w)
}

// WeekdayFromSundayZero converts a template day code (Sunday=0..Saturday=6).
func WeekdayFromSundayZero(code int) (Weekday, error) {
	if code < 0 || code > 6 {
		return 0, fmt.Errorf("day of week %d out of range 0-6", code)
	}
	if code == 0 {
		return Sunday, nil
	}
	return Weekday(code), nil
}

func weekdayFromTime(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return Weekday(int(w))
}
