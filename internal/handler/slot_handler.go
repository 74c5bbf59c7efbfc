package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/service"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
	"github.com/ensino-labs/agenda-api/pkg/response"
)

// SlotHandler exposes computed slot occurrences and calendar summaries.
type SlotHandler struct {
	service *service.SlotService
}

// NewSlotHandler constructs handler.
func NewSlotHandler(svc *service.SlotService) *SlotHandler {
	return &SlotHandler{service: svc}
}

// ListByTeacher godoc
// @Summary List a teacher's slot occurrences in a date range
// @Tags Slots
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param startDate query string true "Range start (YYYY-MM-DD)"
// @Param endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/slots [get]
func (h *SlotHandler) ListByTeacher(c *gin.Context) {
	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.service.CalculateAvailableSlots(c.Request.Context(), c.Param("teacherId"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(slots) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNoAvailability, "teacher has no slots in the requested range"))
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Calendar godoc
// @Summary Per-day slot summary for a calendar month
// @Tags Slots
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year (2020-2050)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/calendar [get]
func (h *SlotHandler) Calendar(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid month"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid year"))
		return
	}
	summary, err := h.service.AggregateForCalendar(c.Request.Context(), c.Param("teacherId"), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// NextAvailable godoc
// @Summary First slot with open capacity after a date
// @Tags Slots
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param after query string false "Search start (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/slots/next [get]
func (h *SlotHandler) NextAvailable(c *gin.Context) {
	after := dateutil.Today()
	if raw := c.Query("after"); raw != "" {
		parsed, err := dateutil.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid after date"))
			return
		}
		after = parsed
	}
	slot, err := h.service.NextAvailableSlot(c.Request.Context(), c.Param("teacherId"), after)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}
