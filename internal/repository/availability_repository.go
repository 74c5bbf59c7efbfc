package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ensino-labs/agenda-api/internal/models"
)

// AvailabilityRepository persists recurring availability templates.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const availabilityColumns = `id, teacher_id, day_of_week, start_time, end_time, max_students, is_active, created_at, updated_at`

// ListActiveByTeacher returns a teacher's active templates ordered by day
// and start time.
func (r *AvailabilityRepository) ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM teacher_availability
WHERE teacher_id = $1 AND is_active = TRUE ORDER BY day_of_week ASC, start_time ASC`, availabilityColumns)
	var templates []models.AvailabilityTemplate
	if err := r.db.SelectContext(ctx, &templates, query, teacherID); err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	return templates, nil
}

// ListActive returns every active template across teachers, for the admin
// conflict report.
func (r *AvailabilityRepository) ListActive(ctx context.Context) ([]models.AvailabilityTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM teacher_availability
WHERE is_active = TRUE ORDER BY teacher_id ASC, day_of_week ASC, start_time ASC`, availabilityColumns)
	var templates []models.AvailabilityTemplate
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	return templates, nil
}

// FindByID returns a template by id.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*models.AvailabilityTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM teacher_availability WHERE id = $1`, availabilityColumns)
	var template models.AvailabilityTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// Create inserts a template.
func (r *AvailabilityRepository) Create(ctx context.Context, template *models.AvailabilityTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now
	const query = `INSERT INTO teacher_availability
(id, teacher_id, day_of_week, start_time, end_time, max_students, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		template.ID, template.TeacherID, template.DayOfWeek, template.StartTime,
		template.EndTime, template.MaxStudents, template.IsActive, template.CreatedAt, template.UpdatedAt); err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// Update rewrites a template's window and capacity.
func (r *AvailabilityRepository) Update(ctx context.Context, template *models.AvailabilityTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teacher_availability
SET day_of_week = $2, start_time = $3, end_time = $4, max_students = $5, is_active = $6, updated_at = $7
WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		template.ID, template.DayOfWeek, template.StartTime, template.EndTime,
		template.MaxStudents, template.IsActive, template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRowAffected(result)
}

// Deactivate soft-deletes a template; history stays intact.
func (r *AvailabilityRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE teacher_availability SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate template: %w", err)
	}
	return requireRowAffected(result)
}
