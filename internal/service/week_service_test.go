package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
	"github.com/eduplan/lesson-planner-api/internal/repository"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
)

type stubWeekRepo struct {
	weeks       map[string]*models.PlanningWeek
	exists      bool
	activeCalls int
}

func (s *stubWeekRepo) List(ctx context.Context) ([]models.PlanningWeek, error) {
	var out []models.PlanningWeek
	for _, w := range s.weeks {
		out = append(out, *w)
	}
	return out, nil
}

func (s *stubWeekRepo) ListActive(ctx context.Context) ([]models.PlanningWeek, error) {
	s.activeCalls++
	var out []models.PlanningWeek
	for _, w := range s.weeks {
		if w.IsActive {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *stubWeekRepo) FindByID(ctx context.Context, id string) (*models.PlanningWeek, error) {
	if w, ok := s.weeks[id]; ok {
		return w, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubWeekRepo) ExistsByWeekAndYear(ctx context.Context, weekNumber, year int) (bool, error) {
	return s.exists, nil
}

func (s *stubWeekRepo) Create(ctx context.Context, week *models.PlanningWeek) error {
	week.ID = "w-new"
	s.weeks[week.ID] = week
	return nil
}

func (s *stubWeekRepo) ToggleActive(ctx context.Context, id string) (*models.PlanningWeek, error) {
	w, ok := s.weeks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	w.IsActive = !w.IsActive
	return w, nil
}

func (s *stubWeekRepo) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := s.weeks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.weeks, id)
	return nil
}

func newWeekServiceFixture() (*WeekService, *stubWeekRepo, *recordingCache) {
	repo := &stubWeekRepo{weeks: map[string]*models.PlanningWeek{
		"w1": {ID: "w1", WeekNumber: 10, Year: 2026, IsActive: true},
		"w2": {ID: "w2", WeekNumber: 11, Year: 2026, IsActive: false},
	}}
	cache := &recordingCache{}
	return NewWeekService(repo, cache, nil, time.Minute, nil, nil), repo, cache
}

func TestWeekServiceCreate(t *testing.T) {
	svc, repo, cache := newWeekServiceFixture()

	week, err := svc.Create(context.Background(), CreateWeekRequest{
		WeekNumber: 12,
		Year:       2026,
		StartDate:  "2026-03-16",
		EndDate:    "2026-03-20",
	})
	require.NoError(t, err)
	assert.True(t, week.IsActive)
	assert.Contains(t, repo.weeks, "w-new")
	assert.Contains(t, cache.deleted, repository.ActiveWeeksKey)
}

func TestWeekServiceCreateEndBeforeStart(t *testing.T) {
	svc, _, _ := newWeekServiceFixture()

	_, err := svc.Create(context.Background(), CreateWeekRequest{
		WeekNumber: 12,
		Year:       2026,
		StartDate:  "2026-03-20",
		EndDate:    "2026-03-16",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestWeekServiceCreateDuplicate(t *testing.T) {
	svc, repo, _ := newWeekServiceFixture()
	repo.exists = true

	_, err := svc.Create(context.Background(), CreateWeekRequest{
		WeekNumber: 10,
		Year:       2026,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestWeekServiceListActiveCachesResult(t *testing.T) {
	svc, repo, cache := newWeekServiceFixture()

	weeks, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 1, repo.activeCalls)
	assert.Contains(t, cache.store, repository.ActiveWeeksKey)
}

type primedCache struct {
	recordingCache
	primed bool
}

func (c *primedCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.primed {
		return nil
	}
	return appErrors.ErrCacheMiss
}

func TestWeekServiceListActiveRecordsCacheLookups(t *testing.T) {
	repo := &stubWeekRepo{weeks: map[string]*models.PlanningWeek{
		"w1": {ID: "w1", WeekNumber: 10, Year: 2026, IsActive: true},
	}}
	cache := &primedCache{}
	metrics := &stubCacheMetrics{}
	svc := NewWeekService(repo, cache, metrics, time.Minute, nil, nil)

	_, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, repo.activeCalls)

	cache.primed = true
	_, err = svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, repo.activeCalls)
}

func TestWeekServiceToggleInvalidatesCache(t *testing.T) {
	svc, _, cache := newWeekServiceFixture()

	week, err := svc.ToggleActive(context.Background(), "w2")
	require.NoError(t, err)
	assert.True(t, week.IsActive)
	assert.Contains(t, cache.deleted, repository.ActiveWeeksKey)
}

func TestWeekServiceDeleteNotFound(t *testing.T) {
	svc, _, _ := newWeekServiceFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
