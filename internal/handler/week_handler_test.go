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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
	"github.com/eduplan/lesson-planner-api/internal/service"
	"github.com/eduplan/lesson-planner-api/pkg/response"
)

type weekRepoMock struct {
	weeks map[string]*models.PlanningWeek
}

func (m *weekRepoMock) List(ctx context.Context) ([]models.PlanningWeek, error) {
	var out []models.PlanningWeek
	for _, w := range m.weeks {
		out = append(out, *w)
	}
	return out, nil
}

func (m *weekRepoMock) ListActive(ctx context.Context) ([]models.PlanningWeek, error) {
	var out []models.PlanningWeek
	for _, w := range m.weeks {
		if w.IsActive {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *weekRepoMock) FindByID(ctx context.Context, id string) (*models.PlanningWeek, error) {
	if w, ok := m.weeks[id]; ok {
		return w, nil
	}
	return nil, sql.ErrNoRows
}

func (m *weekRepoMock) ExistsByWeekAndYear(ctx context.Context, weekNumber, year int) (bool, error) {
	for _, w := range m.weeks {
		if w.WeekNumber == weekNumber && w.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (m *weekRepoMock) Create(ctx context.Context, week *models.PlanningWeek) error {
	week.ID = "w-new"
	m.weeks[week.ID] = week
	return nil
}

func (m *weekRepoMock) ToggleActive(ctx context.Context, id string) (*models.PlanningWeek, error) {
	w, ok := m.weeks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	w.IsActive = !w.IsActive
	return w, nil
}

func (m *weekRepoMock) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := m.weeks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.weeks, id)
	return nil
}

func newWeekHandlerFixture() (*WeekHandler, *weekRepoMock) {
	repo := &weekRepoMock{weeks: map[string]*models.PlanningWeek{
		"w1": {ID: "w1", WeekNumber: 10, Year: 2026, IsActive: true},
	}}
	svc := service.NewWeekService(repo, nil, nil, 0, nil, nil)
	return NewWeekHandler(svc), repo
}

func TestWeekHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWeekHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/planning-weeks", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
}

func TestWeekHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWeekHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/planning-weeks/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestWeekHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newWeekHandlerFixture()

	body := `{"week_number":12,"year":2026,"start_date":"2026-03-16","end_date":"2026-03-20"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/planning-weeks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, repo.weeks, "w-new")
}

func TestWeekHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWeekHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/planning-weeks", bytes.NewBufferString(`{"week_number":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeekHandlerToggleActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newWeekHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/planning-weeks/w1/toggle", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "w1"}}

	handler.ToggleActive(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.weeks["w1"].IsActive)
}

func TestWeekHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newWeekHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/planning-weeks/w1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "w1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, repo.weeks, "w1")
}
