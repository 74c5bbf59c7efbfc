package models

import "github.com/ensino-labs/agenda-api/pkg/dateutil"

// CourseRequirements is the pure input value object for end-date projection.
type CourseRequirements struct {
	TotalHours             float64 `json:"total_hours"`
	SessionDurationMinutes int     `json:"session_duration_minutes"`
	WeeklyFrequency        int     `json:"weekly_frequency"`
}

// ClassSession is one concrete projected class meeting.
type ClassSession struct {
	Date            dateutil.Date  `json:"date"`
	StartTime       dateutil.Clock `json:"start_time"`
	EndTime         dateutil.Clock `json:"end_time"`
	DurationMinutes int            `json:"duration_minutes"`
}

// CourseSchedule is the projection output: the computed end date plus the
// full concrete session list and every holiday actually skipped.
type CourseSchedule struct {
	StartDate        dateutil.Date   `json:"start_date"`
	EndDate          dateutil.Date   `json:"end_date"`
	TotalWeeks       int             `json:"total_weeks"`
	ActualClassDays  int             `json:"actual_class_days"`
	HolidaysExcluded []dateutil.Date `json:"holidays_excluded"`
	Schedule         []ClassSession  `json:"schedule"`
}
