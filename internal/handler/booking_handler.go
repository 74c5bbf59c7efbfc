package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/service"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
	"github.com/ensino-labs/agenda-api/pkg/response"
)

// BookingHandler manages slot booking endpoints.
type BookingHandler struct {
	service *service.BookingService
	metrics *service.MetricsService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(svc *service.BookingService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Book a seat on a slot occurrence
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.StudentID == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.StudentID = claims.UserID
		}
	}
	booking, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrCapacityExceeded) {
			h.metrics.RecordBookingOutcome("capacity_exceeded")
		} else {
			h.metrics.RecordBookingOutcome("rejected")
		}
		response.Error(c, err)
		return
	}
	h.metrics.RecordBookingOutcome("booked")
	response.Created(c, booking)
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordBookingOutcome("cancelled")
	response.JSON(c, http.StatusOK, booking, nil)
}
