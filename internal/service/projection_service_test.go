package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensino-labs/agenda-api/internal/models"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

func newTestProjectionService(holidays *fakeHolidaySource, templates *fakeTemplateStore) *ProjectionService {
	return NewProjectionService(holidays, templates, ProjectionServiceConfig{}, nil, nil)
}

func TestProjectionServiceFortyHourCourse(t *testing.T) {
	svc := newTestProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{})

	// 40 hours at 120 minutes per session is 20 sessions; twice a week from
	// Monday 2025-01-06 they land on Mondays and Wednesdays through March.
	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             40,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, schedule.ActualClassDays)
	assert.Equal(t, 10, schedule.TotalWeeks)
	assert.Equal(t, "2025-01-06", schedule.StartDate.String())
	assert.Equal(t, "2025-03-12", schedule.EndDate.String())
	require.Len(t, schedule.Schedule, 20)
	assert.Equal(t, "2025-01-06", schedule.Schedule[0].Date.String())
	assert.Equal(t, "09:00", schedule.Schedule[0].StartTime.String())
	assert.Equal(t, "11:00", schedule.Schedule[0].EndTime.String())
	assert.Empty(t, schedule.HolidaysExcluded)
}

func TestProjectionServiceHolidayExtendsCalendar(t *testing.T) {
	holidays := &fakeHolidaySource{holidays: []models.Holiday{
		{ID: "hol-1", Date: mustDate(t, "2025-01-20"), Name: "Feriado"},
	}}
	svc := newTestProjectionService(holidays, &fakeTemplateStore{})

	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             40,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})
	require.NoError(t, err)
	// The skipped Monday pushes the final session one class day later.
	assert.Equal(t, 20, schedule.ActualClassDays)
	assert.Equal(t, "2025-03-17", schedule.EndDate.String())
	require.Len(t, schedule.HolidaysExcluded, 1)
	assert.Equal(t, "2025-01-20", schedule.HolidaysExcluded[0].String())

	for _, session := range schedule.Schedule {
		assert.NotEqual(t, "2025-01-20", session.Date.String())
	}
}

func TestProjectionServiceHolidaysIncluded(t *testing.T) {
	holidays := &fakeHolidaySource{holidays: []models.Holiday{
		{ID: "hol-1", Date: mustDate(t, "2025-01-20"), Name: "Feriado"},
	}}
	svc := newTestProjectionService(holidays, &fakeTemplateStore{})

	exclude := false
	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             40,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
		ExcludeHolidays:        &exclude,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", schedule.EndDate.String())
	assert.Empty(t, schedule.HolidaysExcluded)
}

func TestProjectionServiceWeekendStart(t *testing.T) {
	svc := newTestProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{})

	// 2025-01-04 is a Saturday; the first Monday session is 2025-01-06.
	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-04",
		TotalHours:             10,
		WeeklyClasses:          1,
		SessionDurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-04", schedule.StartDate.String())
	require.Len(t, schedule.Schedule, 10)
	assert.Equal(t, "2025-01-06", schedule.Schedule[0].Date.String())
	assert.Equal(t, "2025-03-10", schedule.EndDate.String())
	assert.Equal(t, 10, schedule.TotalWeeks)
}

func TestProjectionServicePartialFinalSession(t *testing.T) {
	svc := newTestProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{})

	// 5 hours at 120-minute sessions needs 2.5 sessions; the final session
	// still runs in full, so three sessions are scheduled.
	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             5,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, schedule.ActualClassDays)
	assert.Equal(t, "2025-01-13", schedule.EndDate.String())
	assert.Equal(t, 2, schedule.TotalWeeks)
}

func TestProjectionServiceTeacherTemplatesDriveSchedule(t *testing.T) {
	templates := &fakeTemplateStore{templates: []models.AvailabilityTemplate{
		window("tpl-tue", "teacher-1", 2, "10:00", "12:00", 5),
		window("tpl-thu", "teacher-1", 4, "10:00", "12:00", 5),
	}}
	svc := newTestProjectionService(&fakeHolidaySource{}, templates)

	schedule, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             8,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
		TeacherID:              "teacher-1",
	})
	require.NoError(t, err)
	require.Len(t, schedule.Schedule, 4)
	// Sessions follow the teacher's Tuesday and Thursday windows.
	assert.Equal(t, "2025-01-07", schedule.Schedule[0].Date.String())
	assert.Equal(t, "10:00", schedule.Schedule[0].StartTime.String())
	assert.Equal(t, "2025-01-09", schedule.Schedule[1].Date.String())
	assert.Equal(t, "2025-01-16", schedule.EndDate.String())
}

func TestProjectionServiceTeacherWithoutAvailability(t *testing.T) {
	svc := newTestProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{})

	_, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             8,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
		TeacherID:              "teacher-1",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoAvailability))
}

func TestProjectionServiceTeacherCoversTooFewDays(t *testing.T) {
	templates := &fakeTemplateStore{templates: []models.AvailabilityTemplate{
		window("tpl-tue", "teacher-1", 2, "10:00", "12:00", 5),
	}}
	svc := newTestProjectionService(&fakeHolidaySource{}, templates)

	_, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             8,
		WeeklyClasses:          3,
		SessionDurationMinutes: 120,
		TeacherID:              "teacher-1",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestProjectionServiceValidation(t *testing.T) {
	svc := newTestProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{})

	cases := []ProjectionRequest{
		{StartDate: "2025-01-06", TotalHours: 0, WeeklyClasses: 2, SessionDurationMinutes: 120},
		{StartDate: "2025-01-06", TotalHours: 40, WeeklyClasses: 0, SessionDurationMinutes: 120},
		{StartDate: "2025-01-06", TotalHours: 40, WeeklyClasses: 8, SessionDurationMinutes: 120},
		{StartDate: "2025-01-06", TotalHours: 40, WeeklyClasses: 2, SessionDurationMinutes: 0},
		{StartDate: "06/01/2025", TotalHours: 40, WeeklyClasses: 2, SessionDurationMinutes: 120},
	}
	for _, req := range cases {
		_, err := svc.CalculateCourseEndDate(context.Background(), req)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "request %+v", req)
	}
}

func TestProjectionServiceIterationBound(t *testing.T) {
	svc := NewProjectionService(&fakeHolidaySource{}, &fakeTemplateStore{}, ProjectionServiceConfig{MaxDays: 30}, nil, nil)

	// 100 sessions cannot fit in a 30-day walk.
	_, err := svc.CalculateCourseEndDate(context.Background(), ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             200,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrComputation))
}
