package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ensino-labs/agenda-api/internal/middleware"
	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/internal/repository"
	"github.com/ensino-labs/agenda-api/internal/service"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

type bookingStoreStub struct {
	bookings map[string]*models.Booking
	full     bool
}

func (s *bookingStoreStub) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *bookingStoreStub) CreateConditional(ctx context.Context, booking *models.Booking, maxStudents int) error {
	if s.full {
		return repository.ErrCapacityExceeded
	}
	booking.ID = "booking-1"
	booking.Status = models.BookingStatusScheduled
	if s.bookings == nil {
		s.bookings = map[string]*models.Booking{}
	}
	copied := *booking
	s.bookings[booking.ID] = &copied
	return nil
}

func (s *bookingStoreStub) Cancel(ctx context.Context, id string) (bool, error) {
	b, ok := s.bookings[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	if b.Status == models.BookingStatusCancelled {
		return false, nil
	}
	b.Status = models.BookingStatusCancelled
	return true, nil
}

type templateReaderStub struct {
	template *models.AvailabilityTemplate
}

func (s *templateReaderStub) FindByID(ctx context.Context, id string) (*models.AvailabilityTemplate, error) {
	if s.template == nil || s.template.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.template
	return &copied, nil
}

type noHolidays struct{}

func (noHolidays) HolidaysInRange(ctx context.Context, start, end dateutil.Date) (models.HolidaySet, error) {
	return models.NewHolidaySet(nil), nil
}

func mondayTemplate() *models.AvailabilityTemplate {
	start, _ := dateutil.ParseClock("09:00")
	end, _ := dateutil.ParseClock("10:00")
	return &models.AvailabilityTemplate{
		ID: "tpl-mon", TeacherID: "teacher-1", DayOfWeek: 1,
		StartTime: start, EndTime: end, MaxStudents: 3, IsActive: true,
	}
}

func newBookingHandler(store *bookingStoreStub) *BookingHandler {
	svc := service.NewBookingService(store, &templateReaderStub{template: mondayTemplate()}, noHolidays{}, nil, nil)
	return NewBookingHandler(svc, service.NewMetricsService())
}

func bookingRequest(t *testing.T, payload interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestBookingHandlerCreate(t *testing.T) {
	h := newBookingHandler(&bookingStoreStub{})
	// 2025-03-03 is a Monday.
	c, w := bookingRequest(t, service.CreateBookingRequest{
		TemplateID: "tpl-mon", StudentID: "student-1", Date: "2025-03-03",
	}, nil)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var envelope struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "booking-1", envelope.Data.ID)
	require.Equal(t, models.BookingStatusScheduled, envelope.Data.Status)
}

func TestBookingHandlerFillsStudentFromClaims(t *testing.T) {
	store := &bookingStoreStub{}
	h := newBookingHandler(store)
	claims := &models.JWTClaims{UserID: "student-7", Role: models.RoleStudent}
	c, w := bookingRequest(t, service.CreateBookingRequest{TemplateID: "tpl-mon", Date: "2025-03-03"}, claims)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "student-7", store.bookings["booking-1"].StudentID)
}

func TestBookingHandlerCapacityExceeded(t *testing.T) {
	h := newBookingHandler(&bookingStoreStub{full: true})
	c, w := bookingRequest(t, service.CreateBookingRequest{
		TemplateID: "tpl-mon", StudentID: "student-1", Date: "2025-03-03",
	}, nil)

	h.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandlerRejectsMalformedBody(t *testing.T) {
	h := newBookingHandler(&bookingStoreStub{})
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCancel(t *testing.T) {
	store := &bookingStoreStub{}
	h := newBookingHandler(store)
	c, w := bookingRequest(t, service.CreateBookingRequest{
		TemplateID: "tpl-mon", StudentID: "student-1", Date: "2025-03-03",
	}, nil)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	gin.SetMode(gin.TestMode)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings/booking-1/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}

	h.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, models.BookingStatusCancelled, envelope.Data.Status)
}
