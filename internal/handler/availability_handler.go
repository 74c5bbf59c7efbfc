package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/service"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
	"github.com/ensino-labs/agenda-api/pkg/response"
)

// AvailabilityHandler manages availability template endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// ListByTeacher godoc
// @Summary List a teacher's availability templates
// @Tags Availability
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/availability [get]
func (h *AvailabilityHandler) ListByTeacher(c *gin.Context) {
	templates, err := h.service.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Create godoc
// @Summary Create availability template
// @Tags Availability
// @Accept json
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param payload body service.UpsertTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /teachers/{teacherId}/availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req service.UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.service.Create(c.Request.Context(), c.Param("teacherId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update availability template
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.UpsertTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /availability/{id} [put]
func (h *AvailabilityHandler) Update(c *gin.Context) {
	var req service.UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Deactivate godoc
// @Summary Deactivate availability template
// @Tags Availability
// @Produce json
// @Param id path string true "Template ID"
// @Success 204
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Validate godoc
// @Summary Validate a teacher's availability configuration
// @Tags Availability
// @Accept json
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param payload body service.UpsertTemplateRequest false "Proposed window to include"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/availability/validate [post]
func (h *AvailabilityHandler) Validate(c *gin.Context) {
	var proposed *service.UpsertTemplateRequest
	var req service.UpsertTemplateRequest
	switch err := c.ShouldBindJSON(&req); {
	case err == nil:
		proposed = &req
	case errors.Is(err, io.EOF):
		// empty body validates the configured templates alone
	default:
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.ValidateRequest(c.Request.Context(), c.Param("teacherId"), proposed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Conflicts godoc
// @Summary Detect overlapping availability for a teacher
// @Tags Availability
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/availability/conflicts [get]
func (h *AvailabilityHandler) Conflicts(c *gin.Context) {
	pairs, err := h.service.DetectConflicts(c.Request.Context(), c.Param("teacherId"), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairs, nil)
}

// AllConflicts godoc
// @Summary Detect overlapping availability across all teachers
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/conflicts [get]
func (h *AvailabilityHandler) AllConflicts(c *gin.Context) {
	report, err := h.service.DetectAllConflicts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
