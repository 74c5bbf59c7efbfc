package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

type availabilityRepository interface {
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityTemplate, error)
	ListActive(ctx context.Context) ([]models.AvailabilityTemplate, error)
	FindByID(ctx context.Context, id string) (*models.AvailabilityTemplate, error)
	Create(ctx context.Context, template *models.AvailabilityTemplate) error
	Update(ctx context.Context, template *models.AvailabilityTemplate) error
	Deactivate(ctx context.Context, id string) error
}

type calendarInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AvailabilityService manages recurring templates and detects conflicts
// between their windows.
type AvailabilityService struct {
	repo      availabilityRepository
	cache     calendarInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service. A nil cache disables
// calendar invalidation.
func NewAvailabilityService(repo availabilityRepository, cache calendarInvalidator, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// invalidateCalendar drops cached month views for the teacher. Stale views
// age out via TTL anyway, so failures only get logged.
func (s *AvailabilityService) invalidateCalendar(ctx context.Context, teacherID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("calendar:%s:*", teacherID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.String("teacher_id", teacherID), zap.Error(err))
	}
}

// UpsertTemplateRequest describes the create/update payload. DayOfWeek uses
// the template convention Sunday=0..Saturday=6.
type UpsertTemplateRequest struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	MaxStudents int    `json:"max_students" validate:"required,min=1"`
}

// ListByTeacher returns a teacher's active templates.
func (s *AvailabilityService) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityTemplate, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	templates, err := s.repo.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, storeError(err, "failed to list availability templates")
	}
	return templates, nil
}

// Create adds a template after checking it against the teacher's existing
// active windows.
func (s *AvailabilityService) Create(ctx context.Context, teacherID string, req UpsertTemplateRequest) (*models.AvailabilityTemplate, error) {
	candidate, err := s.buildTemplate(teacherID, req)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, storeError(err, "failed to load availability templates")
	}
	if pair := firstConflict(*candidate, existing); pair != nil {
		return nil, appErrors.Clone(appErrors.ErrTimeSlotConflict,
			fmt.Sprintf("window overlaps existing availability %s-%s by %d minutes",
				pair.Second.StartTime, pair.Second.EndTime, pair.OverlapMinutes))
	}
	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, storeError(err, "failed to create availability template")
	}
	s.invalidateCalendar(ctx, teacherID)
	return candidate, nil
}

// Update rewrites a template's window, re-running conflict detection against
// the teacher's other active templates.
func (s *AvailabilityService) Update(ctx context.Context, id string, req UpsertTemplateRequest) (*models.AvailabilityTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability template not found")
		}
		return nil, storeError(err, "failed to load availability template")
	}
	candidate, err := s.buildTemplate(template.TeacherID, req)
	if err != nil {
		return nil, err
	}
	candidate.ID = template.ID
	candidate.IsActive = template.IsActive
	existing, err := s.repo.ListActiveByTeacher(ctx, template.TeacherID)
	if err != nil {
		return nil, storeError(err, "failed to load availability templates")
	}
	if pair := firstConflict(*candidate, existing); pair != nil {
		return nil, appErrors.Clone(appErrors.ErrTimeSlotConflict,
			fmt.Sprintf("window overlaps existing availability %s-%s by %d minutes",
				pair.Second.StartTime, pair.Second.EndTime, pair.OverlapMinutes))
	}
	if err := s.repo.Update(ctx, candidate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability template not found")
		}
		return nil, storeError(err, "failed to update availability template")
	}
	s.invalidateCalendar(ctx, template.TeacherID)
	return candidate, nil
}

// Deactivate soft-removes a template. Existing bookings keep their history.
func (s *AvailabilityService) Deactivate(ctx context.Context, id string) error {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability template not found")
		}
		return storeError(err, "failed to load availability template")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability template not found")
		}
		return storeError(err, "failed to deactivate availability template")
	}
	s.invalidateCalendar(ctx, template.TeacherID)
	return nil
}

// DetectConflicts returns every overlapping pair among a teacher's active
// templates, optionally including unsaved candidates. Overlap is commutative
// and a template never conflicts with itself.
func (s *AvailabilityService) DetectConflicts(ctx context.Context, teacherID string, candidates []models.AvailabilityTemplate) ([]models.ConflictPair, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	templates, err := s.repo.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, storeError(err, "failed to load availability templates")
	}
	templates = append(templates, candidates...)
	return detectOverlaps(templates), nil
}

// DetectAllConflicts produces the admin diagnostic report across every
// teacher with active templates.
func (s *AvailabilityService) DetectAllConflicts(ctx context.Context) (map[string][]models.ConflictPair, error) {
	templates, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load availability templates")
	}
	byTeacher := make(map[string][]models.AvailabilityTemplate)
	for _, t := range templates {
		byTeacher[t.TeacherID] = append(byTeacher[t.TeacherID], t)
	}
	report := make(map[string][]models.ConflictPair)
	for teacherID, group := range byTeacher {
		if pairs := detectOverlaps(group); len(pairs) > 0 {
			report[teacherID] = pairs
		}
	}
	return report, nil
}

// Validate checks a teacher's availability for consistency, optionally
// with a proposed new window included. Overlaps and non-positive capacity
// are issues; unusual hours and very high capacity are warnings.
func (s *AvailabilityService) Validate(ctx context.Context, teacherID string, proposed *models.AvailabilityTemplate) (*models.ValidationReport, error) {
	templates, err := s.repo.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, storeError(err, "failed to load availability templates")
	}
	if proposed != nil {
		templates = append(templates, *proposed)
	}

	report := &models.ValidationReport{Issues: []string{}, Warnings: []string{}}
	if len(templates) == 0 {
		report.Warnings = append(report.Warnings, "no active availability slots configured")
	}
	if overlaps := detectOverlaps(templates); len(overlaps) > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("found %d overlapping availability slots", len(overlaps)))
	}
	for _, t := range templates {
		weekday, err := t.Weekday()
		dayName := "UNKNOWN"
		if err == nil {
			dayName = weekday.String()
		}
		if t.StartTime.Hour() < 6 || t.EndTime.Hour() > 22 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("unusual hours: %s-%s on %s", t.StartTime, t.EndTime, dayName))
		}
		if t.MaxStudents > 50 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("very high capacity (%d) for %s slot", t.MaxStudents, dayName))
		}
		if t.MaxStudents < 1 {
			report.Issues = append(report.Issues, fmt.Sprintf("invalid capacity (%d) for %s slot", t.MaxStudents, dayName))
		}
	}
	report.IsValid = len(report.Issues) == 0
	return report, nil
}

// ValidateRequest builds a proposed window from a raw payload before
// running Validate. A nil payload validates the configured templates alone.
func (s *AvailabilityService) ValidateRequest(ctx context.Context, teacherID string, req *UpsertTemplateRequest) (*models.ValidationReport, error) {
	var proposed *models.AvailabilityTemplate
	if req != nil {
		template, err := s.buildTemplate(teacherID, *req)
		if err != nil {
			return nil, err
		}
		proposed = template
	}
	return s.Validate(ctx, teacherID, proposed)
}

func (s *AvailabilityService) buildTemplate(teacherID string, req UpsertTemplateRequest) (*models.AvailabilityTemplate, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	start, err := dateutil.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	end, err := dateutil.ParseClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return &models.AvailabilityTemplate{
		TeacherID:   teacherID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		MaxStudents: req.MaxStudents,
		IsActive:    true,
	}, nil
}

// detectOverlaps finds every conflicting pair among the given templates.
// Only active templates participate; self-comparison is excluded by the
// index ordering.
func detectOverlaps(templates []models.AvailabilityTemplate) []models.ConflictPair {
	pairs := make([]models.ConflictPair, 0)
	for i := 0; i < len(templates); i++ {
		if !templates[i].IsActive {
			continue
		}
		for j := i + 1; j < len(templates); j++ {
			if !templates[j].IsActive {
				continue
			}
			if templates[i].ID != "" && templates[i].ID == templates[j].ID {
				continue
			}
			if templates[i].DayOfWeek != templates[j].DayOfWeek {
				continue
			}
			overlap := dateutil.Overlap(
				templates[i].StartTime, templates[i].EndTime,
				templates[j].StartTime, templates[j].EndTime,
			)
			if overlap > 0 {
				pairs = append(pairs, models.ConflictPair{
					First:          templates[i],
					Second:         templates[j],
					OverlapMinutes: overlap,
				})
			}
		}
	}
	return pairs
}

// firstConflict returns the first overlap between candidate and existing, or
// nil. The candidate's own id is skipped so updates do not conflict with the
// row they replace.
func firstConflict(candidate models.AvailabilityTemplate, existing []models.AvailabilityTemplate) *models.ConflictPair {
	for _, other := range existing {
		if !other.IsActive || other.ID == candidate.ID {
			continue
		}
		if other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		overlap := dateutil.Overlap(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime)
		if overlap > 0 {
			return &models.ConflictPair{First: candidate, Second: other, OverlapMinutes: overlap}
		}
	}
	return nil
}
