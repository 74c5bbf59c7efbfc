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

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/internal/repository"
	"github.com/ensino-labs/agenda-api/internal/service"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

type holidayRepoStub struct {
	holidays []models.Holiday
}

func (s *holidayRepoStub) ListInRange(ctx context.Context, start, end dateutil.Date) ([]models.Holiday, error) {
	return s.holidays, nil
}

func (s *holidayRepoStub) FindByID(ctx context.Context, id string) (*models.Holiday, error) {
	for i := range s.holidays {
		if s.holidays[i].ID == id {
			return &s.holidays[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *holidayRepoStub) Create(ctx context.Context, holiday *models.Holiday) error {
	for _, h := range s.holidays {
		if h.Date == holiday.Date {
			return repository.ErrDuplicateDate
		}
	}
	holiday.ID = "hol-new"
	s.holidays = append(s.holidays, *holiday)
	return nil
}

func (s *holidayRepoStub) Update(ctx context.Context, holiday *models.Holiday) error {
	return sql.ErrNoRows
}

func (s *holidayRepoStub) Delete(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

func newHolidayTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func TestHolidayHandlerListRejectsInvalidRange(t *testing.T) {
	h := NewHolidayHandler(service.NewHolidayService(&holidayRepoStub{}, nil, nil))
	c, w := newHolidayTestContext(t, http.MethodGet, "/holidays?startDate=bad&endDate=2025-12-31", nil)

	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHolidayHandlerList(t *testing.T) {
	date, _ := dateutil.ParseDate("2025-04-21")
	repo := &holidayRepoStub{holidays: []models.Holiday{{ID: "hol-1", Date: date, Name: "Tiradentes", IsNational: true}}}
	h := NewHolidayHandler(service.NewHolidayService(repo, nil, nil))
	c, w := newHolidayTestContext(t, http.MethodGet, "/holidays?startDate=2025-01-01&endDate=2025-12-31", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.Holiday `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.Equal(t, "Tiradentes", envelope.Data[0].Name)
}

func TestHolidayHandlerCreate(t *testing.T) {
	h := NewHolidayHandler(service.NewHolidayService(&holidayRepoStub{}, nil, nil))
	body, _ := json.Marshal(service.CreateHolidayRequest{Date: "2025-04-21", Name: "Tiradentes", IsNational: true})
	c, w := newHolidayTestContext(t, http.MethodPost, "/holidays", body)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestHolidayHandlerCreateDuplicate(t *testing.T) {
	date, _ := dateutil.ParseDate("2025-04-21")
	repo := &holidayRepoStub{holidays: []models.Holiday{{ID: "hol-1", Date: date, Name: "Tiradentes"}}}
	h := NewHolidayHandler(service.NewHolidayService(repo, nil, nil))
	body, _ := json.Marshal(service.CreateHolidayRequest{Date: "2025-04-21", Name: "Outro"})
	c, w := newHolidayTestContext(t, http.MethodPost, "/holidays", body)

	h.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestHolidayHandlerUpdateNotFound(t *testing.T) {
	h := NewHolidayHandler(service.NewHolidayService(&holidayRepoStub{}, nil, nil))
	body, _ := json.Marshal(service.UpdateHolidayRequest{Name: "Renamed"})
	c, w := newHolidayTestContext(t, http.MethodPut, "/holidays/missing", body)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Update(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
