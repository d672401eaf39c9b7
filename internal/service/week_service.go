package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduplan/lesson-planner-api/internal/models"
	"github.com/eduplan/lesson-planner-api/internal/repository"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
)

type weekRepository interface {
	List(ctx context.Context) ([]models.PlanningWeek, error)
	ListActive(ctx context.Context) ([]models.PlanningWeek, error)
	FindByID(ctx context.Context, id string) (*models.PlanningWeek, error)
	ExistsByWeekAndYear(ctx context.Context, weekNumber, year int) (bool, error)
	Create(ctx context.Context, week *models.PlanningWeek) error
	ToggleActive(ctx context.Context, id string) (*models.PlanningWeek, error)
	DeleteCascade(ctx context.Context, id string) error
}

type weekCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CreateWeekRequest is the payload for creating a planning week.
type CreateWeekRequest struct {
	WeekNumber int    `json:"week_number" validate:"required,min=1,max=52"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// WeekService manages planning weeks. Only active weeks accept new plans.
type WeekService struct {
	repo      weekRepository
	cache     weekCache
	metrics   cacheMetrics
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWeekService creates a new week service.
func NewWeekService(repo weekRepository, cache weekCache, metrics cacheMetrics, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *WeekService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeekService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns all planning weeks, most recent first.
func (s *WeekService) List(ctx context.Context) ([]models.PlanningWeek, error) {
	weeks, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list planning weeks")
	}
	return weeks, nil
}

// ListActive returns the active weeks, served from cache when possible.
func (s *WeekService) ListActive(ctx context.Context) ([]models.PlanningWeek, error) {
	if s.cache != nil {
		var cached []models.PlanningWeek
		if err := s.cache.Get(ctx, repository.ActiveWeeksKey, &cached); err == nil {
			s.recordCacheLookup(true)
			return cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			s.recordCacheLookup(false)
		} else {
			s.logger.Warn("active weeks cache read failed", zap.Error(err))
		}
	}

	weeks, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active weeks")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, repository.ActiveWeeksKey, weeks, s.cacheTTL); err != nil {
			s.logger.Warn("active weeks cache write failed", zap.Error(err))
		}
	}
	return weeks, nil
}

// Get loads a single planning week.
func (s *WeekService) Get(ctx context.Context, id string) (*models.PlanningWeek, error) {
	week, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "planning week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning week")
	}
	return week, nil
}

// Create registers a new planning week. New weeks start active.
func (s *WeekService) Create(ctx context.Context, req CreateWeekRequest) (*models.PlanningWeek, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planning week payload")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not be before start date")
	}

	exists, err := s.repo.ExistsByWeekAndYear(ctx, req.WeekNumber, req.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check planning week")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "planning week already exists for this year")
	}

	week := &models.PlanningWeek{
		WeekNumber: req.WeekNumber,
		Year:       req.Year,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, week); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "planning week already exists for this year")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create planning week")
	}

	s.invalidateActiveWeeks(ctx)
	s.logger.Info("planning week created", zap.String("week_id", week.ID), zap.Int("week_number", week.WeekNumber), zap.Int("year", week.Year))
	return week, nil
}

// ToggleActive flips the active flag on a planning week.
func (s *WeekService) ToggleActive(ctx context.Context, id string) (*models.PlanningWeek, error) {
	week, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "planning week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle planning week")
	}

	s.invalidateActiveWeeks(ctx)
	s.logger.Info("planning week toggled", zap.String("week_id", week.ID), zap.Bool("is_active", week.IsActive))
	return week, nil
}

// Delete removes the planning week and every plan recorded against it.
func (s *WeekService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "planning week not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete planning week")
	}

	s.invalidateActiveWeeks(ctx)
	s.logger.Info("planning week deleted", zap.String("week_id", id))
	return nil
}

func (s *WeekService) invalidateActiveWeeks(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, repository.ActiveWeeksKey); err != nil {
		s.logger.Warn("active weeks cache invalidation failed", zap.Error(err))
	}
}

func (s *WeekService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
