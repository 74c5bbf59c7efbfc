package models

import (
	"time"

	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

// AvailabilityTemplate is a teacher's recurring weekly availability window.
// DayOfWeek uses the template convention Sunday=0..Saturday=6; convert via
// dateutil before comparing against any other day-of-week source.
type AvailabilityTemplate struct {
	ID          string         `db:"id" json:"id"`
	TeacherID   string         `db:"teacher_id" json:"teacher_id"`
	DayOfWeek   int            `db:"day_of_week" json:"day_of_week"`
	StartTime   dateutil.Clock `db:"start_time" json:"start_time"`
	EndTime     dateutil.Clock `db:"end_time" json:"end_time"`
	MaxStudents int            `db:"max_students" json:"max_students"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Weekday returns the template's canonical day of week.
func (t AvailabilityTemplate) Weekday() (dateutil.Weekday, error) {
	return dateutil.WeekdayFromSundayZero(t.DayOfWeek)
}

// SlotOccurrence is a dated instantiation of a template. It is a projection
// of template, calendar and bookings, never persisted with its own identity.
type SlotOccurrence struct {
	TemplateID           string         `json:"template_id"`
	TeacherID            string         `json:"teacher_id"`
	Date                 dateutil.Date  `json:"date"`
	StartTime            dateutil.Clock `json:"start_time"`
	EndTime              dateutil.Clock `json:"end_time"`
	MaxStudents          int            `json:"max_students"`
	BookedCount          int            `json:"booked_count"`
	AvailableSpots       int            `json:"available_spots"`
	ConflictsWithHoliday bool           `json:"conflicts_with_holiday"`
	IsAvailable          bool           `json:"is_available"`
	DayOfWeekName        string         `json:"day_of_week_name"`
}

// Key returns the occurrence identity used for booking capacity.
func (o SlotOccurrence) Key() OccurrenceKey {
	return OccurrenceKey{
		TemplateID: o.TemplateID,
		Date:       o.Date,
		StartTime:  o.StartTime,
		EndTime:    o.EndTime,
	}
}

// OccurrenceKey identifies one concrete slot (template + date + window) for
// capacity accounting.
type OccurrenceKey struct {
	TemplateID string         `json:"template_id"`
	Date       dateutil.Date  `json:"date"`
	StartTime  dateutil.Clock `json:"start_time"`
	EndTime    dateutil.Clock `json:"end_time"`
}

// ConflictPair reports two overlapping templates on the same day of week.
type ConflictPair struct {
	First          AvailabilityTemplate `json:"first"`
	Second         AvailabilityTemplate `json:"second"`
	OverlapMinutes int                  `json:"overlap_minutes"`
}

// ValidationReport is the result of a template consistency check.
type ValidationReport struct {
	IsValid  bool     `json:"is_valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// CapacityInfo summarises enrollment pressure for a slot or a day.
type CapacityInfo struct {
	MaxStudents        int  `json:"max_students"`
	CurrentEnrollments int  `json:"current_enrollments"`
	AvailableSpots     int  `json:"available_spots"`
	IsAtCapacity       bool `json:"is_at_capacity"`
}

// DaySummary aggregates a day's occurrences for calendar display.
type DaySummary struct {
	TotalSlots      int          `json:"total_slots"`
	AvailableSlots  int          `json:"available_slots"`
	ConflictedSlots int          `json:"conflicted_slots"`
	Capacity        CapacityInfo `json:"capacity"`
}
