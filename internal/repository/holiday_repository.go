package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

// HolidayRepository persists the holiday calendar.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListInRange returns holidays with start <= date <= end, ordered by date.
func (r *HolidayRepository) ListInRange(ctx context.Context, start, end dateutil.Date) ([]models.Holiday, error) {
	const query = `SELECT id, date, name, is_national, created_at, updated_at
FROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date ASC`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, start, end); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// FindByID returns a holiday by id.
func (r *HolidayRepository) FindByID(ctx context.Context, id string) (*models.Holiday, error) {
	const query = `SELECT id, date, name, is_national, created_at, updated_at
FROM holidays WHERE id = $1`
	var holiday models.Holiday
	if err := r.db.GetContext(ctx, &holiday, query, id); err != nil {
		return nil, err
	}
	return &holiday, nil
}

// Create inserts a holiday. The holidays table carries a unique constraint
// on date; a violation surfaces as ErrDuplicateDate.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	holiday.CreatedAt = now
	holiday.UpdatedAt = now
	const query = `INSERT INTO holidays (id, date, name, is_national, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, holiday.ID, holiday.Date, holiday.Name, holiday.IsNational, holiday.CreatedAt, holiday.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDate
		}
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Update modifies a holiday's name and national flag. The date itself is
// immutable once created.
func (r *HolidayRepository) Update(ctx context.Context, holiday *models.Holiday) error {
	holiday.UpdatedAt = time.Now().UTC()
	const query = `UPDATE holidays SET name = $2, is_national = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, holiday.ID, holiday.Name, holiday.IsNational, holiday.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update holiday: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a holiday.
func (r *HolidayRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	return requireRowAffected(result)
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
