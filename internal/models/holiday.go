package models

import (
	"time"

	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

// Holiday is a calendar date excluded from scheduling. At most one holiday
// may exist per date.
type Holiday struct {
	ID         string        `db:"id" json:"id"`
	Date       dateutil.Date `db:"date" json:"date"`
	Name       string        `db:"name" json:"name"`
	IsNational bool          `db:"is_national" json:"is_national"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// HolidaySet answers date-membership queries for a loaded range.
type HolidaySet map[dateutil.Date]Holiday

// NewHolidaySet indexes holidays by date.
func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = h
	}
	return set
}

// Contains reports whether the date is a holiday.
func (s HolidaySet) Contains(d dateutil.Date) bool {
	_, ok := s[d]
	return ok
}

// Dates returns the member dates in map order; callers needing a stable
// order must sort.
func (s HolidaySet) Dates() []dateutil.Date {
	dates := make([]dateutil.Date, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	return dates
}
