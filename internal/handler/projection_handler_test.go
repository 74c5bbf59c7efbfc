package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/internal/service"
)

func newProjectionHandler() *ProjectionHandler {
	svc := service.NewProjectionService(noHolidays{}, &templateListerStub{}, service.ProjectionServiceConfig{}, nil, nil)
	return NewProjectionHandler(svc)
}

func projectionRequest(t *testing.T, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/courses/projection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestProjectionHandlerProject(t *testing.T) {
	h := newProjectionHandler()
	c, w := projectionRequest(t, service.ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             40,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})

	h.Project(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.CourseSchedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 20, envelope.Data.ActualClassDays)
	require.Equal(t, "2025-03-12", envelope.Data.EndDate.String())
}

func TestProjectionHandlerRejectsInvalidPayload(t *testing.T) {
	h := newProjectionHandler()
	c, w := projectionRequest(t, service.ProjectionRequest{
		StartDate:              "2025-01-06",
		TotalHours:             0,
		WeeklyClasses:          2,
		SessionDurationMinutes: 120,
	})

	h.Project(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
