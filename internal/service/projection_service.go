package service

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

// ProjectionService answers "when does this course end" by walking the
// calendar day by day, counting only class days and skipping holidays.
type ProjectionService struct {
	holidays  holidayChecker
	templates templateLister
	validator *validator.Validate
	logger    *zap.Logger
	config    ProjectionServiceConfig
}

type templateLister interface {
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityTemplate, error)
}

// ProjectionServiceConfig bounds the calendar walk and supplies defaults
// when no teacher template dictates session times.
type ProjectionServiceConfig struct {
	MaxDays             int
	DefaultSessionStart dateutil.Clock
}

// NewProjectionService constructs the service.
func NewProjectionService(holidays holidayChecker, templates templateLister, cfg ProjectionServiceConfig, validate *validator.Validate, logger *zap.Logger) *ProjectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = 3660
	}
	if cfg.DefaultSessionStart <= 0 {
		cfg.DefaultSessionStart, _ = dateutil.ParseClock("09:00")
	}
	return &ProjectionService{holidays: holidays, templates: templates, validator: validate, logger: logger, config: cfg}
}

// ProjectionRequest describes the course being projected. TeacherID is
// optional; when present, class days follow that teacher's active templates.
type ProjectionRequest struct {
	StartDate              string  `json:"start_date" validate:"required"`
	TotalHours             float64 `json:"total_hours" validate:"required,gt=0"`
	WeeklyClasses          int     `json:"weekly_classes" validate:"required,min=1,max=7"`
	SessionDurationMinutes int     `json:"session_duration_minutes" validate:"required,gt=0"`
	TeacherID              string  `json:"teacher_id"`
	ExcludeHolidays        *bool   `json:"exclude_holidays"`
}

// Requirements extracts the pure course-requirements value object.
func (r ProjectionRequest) Requirements() models.CourseRequirements {
	return models.CourseRequirements{
		TotalHours:             r.TotalHours,
		SessionDurationMinutes: r.SessionDurationMinutes,
		WeeklyFrequency:        r.WeeklyClasses,
	}
}

// sessionCount is the number of full sessions needed to cover the hour
// budget. A partial final session rounds up to a whole one.
func sessionCount(req models.CourseRequirements) int {
	return int(math.Ceil(req.TotalHours * 60 / float64(req.SessionDurationMinutes)))
}

// classDay is one weekday on which the course meets, with its session time.
type classDay struct {
	weekday dateutil.Weekday
	start   dateutil.Clock
}

// CalculateCourseEndDate projects the end date and full session schedule
// for a course. A session that would exceed the remaining hours still runs
// in full; the course ends on its date.
func (s *ProjectionService) CalculateCourseEndDate(ctx context.Context, req ProjectionRequest) (*models.CourseSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid projection request")
	}
	start, err := dateutil.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}

	days, err := s.resolveClassDays(ctx, req)
	if err != nil {
		return nil, err
	}

	excludeHolidays := req.ExcludeHolidays == nil || *req.ExcludeHolidays
	var holidaySet models.HolidaySet
	if excludeHolidays {
		horizon := start.AddDays(s.config.MaxDays)
		holidaySet, err = s.holidays.HolidaysInRange(ctx, start, horizon)
		if err != nil {
			return nil, err
		}
	}

	sessionsNeeded := sessionCount(req.Requirements())

	schedule := make([]models.ClassSession, 0, sessionsNeeded)
	excluded := make([]dateutil.Date, 0)
	current := start
	for i := 0; len(schedule) < sessionsNeeded; i++ {
		if i >= s.config.MaxDays {
			s.logger.Error("projection exceeded iteration bound",
				zap.String("start_date", start.String()),
				zap.Int("sessions_needed", sessionsNeeded),
				zap.Int("max_days", s.config.MaxDays))
			return nil, appErrors.Clone(appErrors.ErrComputation,
				fmt.Sprintf("course projection did not converge: %d sessions from %s exceed the %d-day bound",
					sessionsNeeded, start, s.config.MaxDays))
		}
		if day, ok := matchClassDay(days, current.Weekday()); ok {
			if excludeHolidays && holidaySet.Contains(current) {
				excluded = append(excluded, current)
			} else {
				schedule = append(schedule, models.ClassSession{
					Date:            current,
					StartTime:       day.start,
					EndTime:         day.start.AddMinutes(req.SessionDurationMinutes),
					DurationMinutes: req.SessionDurationMinutes,
				})
			}
		}
		current = current.Next()
	}

	actualClassDays := len(schedule)
	return &models.CourseSchedule{
		StartDate:        start,
		EndDate:          schedule[actualClassDays-1].Date,
		TotalWeeks:       int(math.Ceil(float64(actualClassDays) / float64(req.WeeklyClasses))),
		ActualClassDays:  actualClassDays,
		HolidaysExcluded: excluded,
		Schedule:         schedule,
	}, nil
}

// resolveClassDays picks the weekdays the course meets on. A teacher's
// active templates win; without a teacher the generic weekly patterns apply.
func (s *ProjectionService) resolveClassDays(ctx context.Context, req ProjectionRequest) ([]classDay, error) {
	if req.TeacherID != "" {
		templates, err := s.templates.ListActiveByTeacher(ctx, req.TeacherID)
		if err != nil {
			return nil, storeError(err, "failed to load teacher availability")
		}
		days := classDaysFromTemplates(templates)
		if len(days) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNoAvailability, "teacher has no active availability")
		}
		if len(days) < req.WeeklyClasses {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				"teacher availability covers fewer weekdays than the requested weekly frequency")
		}
		return days[:req.WeeklyClasses], nil
	}
	return s.genericClassDays(req.WeeklyClasses), nil
}

// classDaysFromTemplates reduces templates to one entry per weekday, keeping
// the earliest start time, ordered Monday first.
func classDaysFromTemplates(templates []models.AvailabilityTemplate) []classDay {
	starts := make(map[dateutil.Weekday]dateutil.Clock)
	for _, t := range templates {
		weekday, err := t.Weekday()
		if err != nil {
			continue
		}
		if existing, ok := starts[weekday]; !ok || t.StartTime < existing {
			starts[weekday] = t.StartTime
		}
	}
	days := make([]classDay, 0, len(starts))
	for wd := dateutil.Monday; wd <= dateutil.Sunday; wd++ {
		if start, ok := starts[wd]; ok {
			days = append(days, classDay{weekday: wd, start: start})
		}
	}
	return days
}

var weeklyPatterns = map[int][]dateutil.Weekday{
	1: {dateutil.Monday},
	2: {dateutil.Monday, dateutil.Wednesday},
	3: {dateutil.Monday, dateutil.Wednesday, dateutil.Friday},
	4: {dateutil.Monday, dateutil.Tuesday, dateutil.Thursday, dateutil.Friday},
	5: {dateutil.Monday, dateutil.Tuesday, dateutil.Wednesday, dateutil.Thursday, dateutil.Friday},
	6: {dateutil.Monday, dateutil.Tuesday, dateutil.Wednesday, dateutil.Thursday, dateutil.Friday, dateutil.Saturday},
	7: {dateutil.Monday, dateutil.Tuesday, dateutil.Wednesday, dateutil.Thursday, dateutil.Friday, dateutil.Saturday, dateutil.Sunday},
}

func (s *ProjectionService) genericClassDays(weeklyClasses int) []classDay {
	pattern := weeklyPatterns[weeklyClasses]
	days := make([]classDay, 0, len(pattern))
	for _, wd := range pattern {
		days = append(days, classDay{weekday: wd, start: s.config.DefaultSessionStart})
	}
	return days
}

func matchClassDay(days []classDay, weekday dateutil.Weekday) (classDay, bool) {
	for _, d := range days {
		if d.weekday == weekday {
			return d, true
		}
	}
	return classDay{}, false
}
