package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/internal/repository"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

type bookingStore interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	CreateConditional(ctx context.Context, booking *models.Booking, maxStudents int) error
	Cancel(ctx context.Context, id string) (bool, error)
}

type templateReader interface {
	FindByID(ctx context.Context, id string) (*models.AvailabilityTemplate, error)
}

type holidayChecker interface {
	HolidaysInRange(ctx context.Context, start, end dateutil.Date) (models.HolidaySet, error)
}

// BookingService claims and releases seats on concrete slot occurrences.
// Capacity is enforced by the store's conditional write, not by an
// in-process lock, so the guarantee holds across processes.
type BookingService struct {
	bookings  bookingStore
	templates templateReader
	holidays  holidayChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs the service.
func NewBookingService(bookings bookingStore, templates templateReader, holidays holidayChecker, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{bookings: bookings, templates: templates, holidays: holidays, validator: validate, logger: logger}
}

// CreateBookingRequest identifies the occurrence being claimed.
type CreateBookingRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
	StudentID  string `json:"student_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
}

// Book claims one seat. The occurrence must belong to an active template
// whose weekday matches the date and must not fall on a holiday. Losing the
// capacity race returns CAPACITY_EXCEEDED; the service never retries on the
// caller's behalf.
func (s *BookingService) Book(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking date")
	}

	template, err := s.templates.FindByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability template not found")
		}
		return nil, storeError(err, "failed to load availability template")
	}
	if !template.IsActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "availability template is no longer active")
	}
	weekday, err := template.Weekday()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "template has invalid day of week")
	}
	if date.Weekday() != weekday {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			"date "+date.String()+" does not fall on the template's "+weekday.String())
	}

	holidaySet, err := s.holidays.HolidaysInRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	if holidaySet.Contains(date) {
		return nil, appErrors.Clone(appErrors.ErrHolidayConflict, "slot falls on a holiday")
	}

	booking := &models.Booking{
		TemplateID: template.ID,
		StudentID:  req.StudentID,
		Date:       date,
		StartTime:  template.StartTime,
		EndTime:    template.EndTime,
		Status:     models.BookingStatusScheduled,
	}
	if err := s.bookings.CreateConditional(ctx, booking, template.MaxStudents); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "slot is fully booked")
		}
		return nil, storeError(err, "failed to create booking")
	}
	return booking, nil
}

// Cancel releases a booking's seat. Cancelling twice is a no-op, not an
// error; the post-state is identical either way.
func (s *BookingService) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking id is required")
	}
	if _, err := s.bookings.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, storeError(err, "failed to load booking")
	}
	released, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to cancel booking")
	}
	if !released {
		s.logger.Debug("booking already cancelled", zap.String("booking_id", id))
	}
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to reload booking")
	}
	return booking, nil
}
