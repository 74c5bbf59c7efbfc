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

type holidayRepository interface {
	ListInRange(ctx context.Context, start, end dateutil.Date) ([]models.Holiday, error)
	FindByID(ctx context.Context, id string) (*models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Update(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id string) error
}

// HolidayService manages the excluded-dates calendar.
type HolidayService struct {
	repo      holidayRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs the service.
func NewHolidayService(repo holidayRepository, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{repo: repo, validator: validate, logger: logger}
}

// CreateHolidayRequest describes the create payload.
type CreateHolidayRequest struct {
	Date       string `json:"date" validate:"required"`
	Name       string `json:"name" validate:"required"`
	IsNational bool   `json:"is_national"`
}

// UpdateHolidayRequest describes the update payload. The date is immutable.
type UpdateHolidayRequest struct {
	Name       string `json:"name" validate:"required"`
	IsNational bool   `json:"is_national"`
}

// HolidaysInRange returns the holiday set for [start, end]. Pure read; store
// failures propagate as DATA_UNAVAILABLE, never as an empty set.
func (s *HolidayService) HolidaysInRange(ctx context.Context, start, end dateutil.Date) (models.HolidaySet, error) {
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	holidays, err := s.repo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, storeError(err, "failed to load holidays")
	}
	return models.NewHolidaySet(holidays), nil
}

// List returns holidays within a range as a slice for API consumers.
func (s *HolidayService) List(ctx context.Context, start, end dateutil.Date) ([]models.Holiday, error) {
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	holidays, err := s.repo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, storeError(err, "failed to list holidays")
	}
	return holidays, nil
}

// Create registers a holiday; at most one per date.
func (s *HolidayService) Create(ctx context.Context, req CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday date")
	}
	holiday := &models.Holiday{Date: date, Name: req.Name, IsNational: req.IsNational}
	if err := s.repo.Create(ctx, holiday); err != nil {
		if errors.Is(err, repository.ErrDuplicateDate) {
			return nil, appErrors.Clone(appErrors.ErrHolidayConflict, "a holiday already exists on "+date.String())
		}
		return nil, storeError(err, "failed to create holiday")
	}
	return holiday, nil
}

// Update renames a holiday or toggles its national flag.
func (s *HolidayService) Update(ctx context.Context, id string, req UpdateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	holiday, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return nil, storeError(err, "failed to load holiday")
	}
	holiday.Name = req.Name
	holiday.IsNational = req.IsNational
	if err := s.repo.Update(ctx, holiday); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return nil, storeError(err, "failed to update holiday")
	}
	return holiday, nil
}

// Delete removes a holiday from the calendar.
func (s *HolidayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return storeError(err, "failed to delete holiday")
	}
	return nil
}
