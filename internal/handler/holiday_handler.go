package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/service"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
	"github.com/ensino-labs/agenda-api/pkg/response"
)

// HolidayHandler manages holiday calendar endpoints.
type HolidayHandler struct {
	service *service.HolidayService
}

// NewHolidayHandler constructs handler.
func NewHolidayHandler(svc *service.HolidayService) *HolidayHandler {
	return &HolidayHandler{service: svc}
}

// List godoc
// @Summary List holidays in a date range
// @Tags Holidays
// @Produce json
// @Param startDate query string true "Range start (YYYY-MM-DD)"
// @Param endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	holidays, err := h.service.List(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// Create godoc
// @Summary Create holiday
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body service.CreateHolidayRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Create(c *gin.Context) {
	var req service.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	holiday, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// Update godoc
// @Summary Update holiday
// @Tags Holidays
// @Accept json
// @Produce json
// @Param id path string true "Holiday ID"
// @Param payload body service.UpdateHolidayRequest true "Holiday payload"
// @Success 200 {object} response.Envelope
// @Router /holidays/{id} [put]
func (h *HolidayHandler) Update(c *gin.Context) {
	var req service.UpdateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	holiday, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holiday, nil)
}

// Delete godoc
// @Summary Delete holiday
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// dateRangeFromQuery parses the startDate/endDate query pair shared by the
// range-scoped endpoints.
func dateRangeFromQuery(c *gin.Context) (dateutil.Date, dateutil.Date, error) {
	start, err := dateutil.ParseDate(c.Query("startDate"))
	if err != nil {
		return dateutil.Date{}, dateutil.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid startDate")
	}
	end, err := dateutil.ParseDate(c.Query("endDate"))
	if err != nil {
		return dateutil.Date{}, dateutil.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid endDate")
	}
	return start, end, nil
}
