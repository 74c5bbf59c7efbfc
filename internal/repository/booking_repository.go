package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

// BookingRepository persists bookings and enforces the per-occurrence
// capacity bound at the store level.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindByID returns a booking by id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	const query = `SELECT id, template_id, student_id, date, start_time, end_time, status, created_at, updated_at
FROM bookings WHERE id = $1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CountByOccurrence returns the number of live (scheduled or confirmed)
// bookings for one occurrence key.
func (r *BookingRepository) CountByOccurrence(ctx context.Context, key models.OccurrenceKey) (int, error) {
	const query = `SELECT COUNT(*) FROM bookings
WHERE template_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4
AND status IN ('SCHEDULED', 'CONFIRMED')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, key.TemplateID, key.Date, key.StartTime, key.EndTime); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// occurrenceCountRow carries a grouped booking count.
type occurrenceCountRow struct {
	TemplateID string         `db:"template_id"`
	Date       dateutil.Date  `db:"date"`
	StartTime  dateutil.Clock `db:"start_time"`
	EndTime    dateutil.Clock `db:"end_time"`
	Count      int            `db:"count"`
}

// CountByTeacherRange returns live booking counts for every occurrence of a
// teacher's templates within [start, end], keyed by the full occurrence.
// Grouping includes the time window: bookings made before a template's
// window changed must not count against the new window's occurrences.
func (r *BookingRepository) CountByTeacherRange(ctx context.Context, teacherID string, start, end dateutil.Date) (map[models.OccurrenceKey]int, error) {
	const query = `SELECT b.template_id, b.date, b.start_time, b.end_time, COUNT(*) AS count
FROM bookings b
JOIN teacher_availability ta ON ta.id = b.template_id
WHERE ta.teacher_id = $1 AND b.date >= $2 AND b.date <= $3
AND b.status IN ('SCHEDULED', 'CONFIRMED')
GROUP BY b.template_id, b.date, b.start_time, b.end_time`
	var rows []occurrenceCountRow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID, start, end); err != nil {
		return nil, fmt.Errorf("count bookings in range: %w", err)
	}
	counts := make(map[models.OccurrenceKey]int, len(rows))
	for _, row := range rows {
		counts[models.OccurrenceKey{
			TemplateID: row.TemplateID,
			Date:       row.Date,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
		}] = row.Count
	}
	return counts, nil
}

// CreateConditional inserts a booking only while the occurrence still has a
// free seat. The template row is locked FOR UPDATE first, so concurrent
// claims on the same occurrence serialise on that lock; without it, two
// read-committed transactions would each count against a snapshot that
// cannot see the other's uncommitted insert, and both would pass the
// capacity check. The loser gets ErrCapacityExceeded.
func (r *BookingRepository) CreateConditional(ctx context.Context, booking *models.Booking, maxStudents int) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = models.BookingStatusScheduled
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	err = tx.GetContext(ctx, &lockedID,
		`SELECT id FROM teacher_availability WHERE id = $1 FOR UPDATE`, booking.TemplateID)
	if err != nil {
		return fmt.Errorf("lock availability template: %w", err)
	}

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings
WHERE template_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4
AND status IN ('SCHEDULED', 'CONFIRMED')`,
		booking.TemplateID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		return fmt.Errorf("count occurrence bookings: %w", err)
	}
	if count >= maxStudents {
		err = ErrCapacityExceeded
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (id, template_id, student_id, date, start_time, end_time, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		booking.ID, booking.TemplateID, booking.StudentID, booking.Date,
		booking.StartTime, booking.EndTime, booking.Status, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

// Cancel flips a booking to cancelled, releasing its seat. Cancelling an
// already-cancelled booking affects no rows and is not an error.
func (r *BookingRepository) Cancel(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE bookings SET status = 'CANCELLED', updated_at = $2
WHERE id = $1 AND status <> 'CANCELLED'`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	return affected > 0, nil
}
