package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/service"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
	"github.com/ensino-labs/agenda-api/pkg/response"
)

// ProjectionHandler exposes course end-date projection.
type ProjectionHandler struct {
	service *service.ProjectionService
}

// NewProjectionHandler constructs handler.
func NewProjectionHandler(svc *service.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{service: svc}
}

// Project godoc
// @Summary Project a course's end date and session schedule
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.ProjectionRequest true "Course parameters"
// @Success 200 {object} response.Envelope
// @Router /courses/projection [post]
func (h *ProjectionHandler) Project(c *gin.Context) {
	var req service.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.CalculateCourseEndDate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}
