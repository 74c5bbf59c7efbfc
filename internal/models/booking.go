package models

import (
	"time"

	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

// BookingStatus enumerates the lifecycle of a booking.
type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// CountsAgainstCapacity reports whether a booking in this status consumes a
// seat. Cancelled bookings never do.
func (s BookingStatus) CountsAgainstCapacity() bool {
	return s == BookingStatusScheduled || s == BookingStatusConfirmed
}

// Booking is a student's claim on one concrete slot occurrence.
type Booking struct {
	ID         string         `db:"id" json:"id"`
	TemplateID string         `db:"template_id" json:"template_id"`
	StudentID  string         `db:"student_id" json:"student_id"`
	Date       dateutil.Date  `db:"date" json:"date"`
	StartTime  dateutil.Clock `db:"start_time" json:"start_time"`
	EndTime    dateutil.Clock `db:"end_time" json:"end_time"`
	Status     BookingStatus  `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
