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

type planRepository interface {
	ListWeekly(ctx context.Context, filter models.WeeklyPlanFilter) ([]models.WeeklyPlan, error)
	FindWeeklyByID(ctx context.Context, id string) (*models.WeeklyPlan, error)
	ExistsWeekly(ctx context.Context, teacherID, subjectID, gradeID, weekID string) (bool, error)
	CreateWeekly(ctx context.Context, plan *models.WeeklyPlan) error
	UpdateNotes(ctx context.Context, id string, notes *string) (*models.WeeklyPlan, error)
	DeleteWeeklyCascade(ctx context.Context, id string) error
	ListDailyByWeekly(ctx context.Context, weeklyPlanID string) ([]models.DailyPlan, error)
	FindDailyByID(ctx context.Context, id string) (*models.DailyPlan, error)
	ExistsDay(ctx context.Context, weeklyPlanID string, dayOfWeek int, excludeID string) (bool, error)
	CreateDaily(ctx context.Context, plan *models.DailyPlan) error
	UpdateDaily(ctx context.Context, plan *models.DailyPlan) error
	DeleteDaily(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) (*models.WeeklyPlanComplete, error)
}

type weekFinder interface {
	FindByID(ctx context.Context, id string) (*models.PlanningWeek, error)
}

type assignmentChecker interface {
	ExistsTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) (bool, error)
}

type planCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheMetrics interface {
	RecordCacheLookup(hit bool)
}

// CreateWeeklyPlanRequest opens a weekly plan for one subject in one
// grade during one planning week. TeacherID is only honored for admins;
// teachers always plan for themselves.
type CreateWeeklyPlanRequest struct {
	TeacherID string  `json:"teacher_id"`
	GradeID   string  `json:"grade_id" validate:"required"`
	SubjectID string  `json:"subject_id" validate:"required"`
	WeekID    string  `json:"week_id" validate:"required"`
	Notes     *string `json:"notes"`
}

// UpdatePlanNotesRequest replaces the free-form notes of a weekly plan.
type UpdatePlanNotesRequest struct {
	Notes *string `json:"notes"`
}

// DailyPlanRequest carries the per-weekday content. Fields outside the
// subject type's set are discarded before storage.
type DailyPlanRequest struct {
	WeeklyPlanID    string  `json:"weekly_plan_id" validate:"required"`
	DayOfWeek       int     `json:"day_of_week" validate:"required,min=1,max=5"`
	Topic           *string `json:"topic"`
	BooksAndPages   *string `json:"books_and_pages"`
	Homework        *string `json:"homework"`
	HomeworkDueDate *string `json:"homework_due_date" validate:"omitempty,datetime=2006-01-02"`
	Assignments     *string `json:"assignments"`
	RequiredItems   *string `json:"required_items"`
	Skill           *string `json:"skill"`
	Activity        *string `json:"activity"`
	Notes           *string `json:"notes"`
}

// PlanService implements the planning workflow: weekly plans are opened
// against an active week by an assigned teacher, filled in day by day,
// and read back as a complete joined view.
type PlanService struct {
	repo        planRepository
	weeks       weekFinder
	subjects    subjectFinder
	assignments assignmentChecker
	cache       planCache
	metrics     cacheMetrics
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPlanService creates a new plan service.
func NewPlanService(repo planRepository, weeks weekFinder, subjects subjectFinder, assignments assignmentChecker, cache planCache, metrics cacheMetrics, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		repo:        repo,
		weeks:       weeks,
		subjects:    subjects,
		assignments: assignments,
		cache:       cache,
		metrics:     metrics,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger,
	}
}

// ListWeekly returns weekly plans matching the filter. Teachers only
// see their own plans; admins see everything.
func (s *PlanService) ListWeekly(ctx context.Context, filter models.WeeklyPlanFilter, actor *models.JWTClaims) ([]models.WeeklyPlan, error) {
	if actor != nil && !actor.IsAdmin {
		filter.TeacherID = actor.UserID
	}
	plans, err := s.repo.ListWeekly(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weekly plans")
	}
	return plans, nil
}

// GetWeekly loads a weekly plan after an ownership check.
func (s *PlanService) GetWeekly(ctx context.Context, id string, actor *models.JWTClaims) (*models.WeeklyPlan, error) {
	return s.loadOwnedWeekly(ctx, id, actor)
}

// CreateWeekly opens a new weekly plan. The week must be active, the
// teacher must be assigned to teach the subject in the grade, and no
// plan may already exist for the tuple.
func (s *PlanService) CreateWeekly(ctx context.Context, req CreateWeeklyPlanRequest, actor *models.JWTClaims) (*models.WeeklyPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekly plan payload")
	}

	teacherID := actor.UserID
	if actor.IsAdmin && req.TeacherID != "" {
		teacherID = req.TeacherID
	}

	week, err := s.weeks.FindByID(ctx, req.WeekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "planning week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning week")
	}
	if !week.IsActive {
		return nil, appErrors.ErrWeekInactive
	}

	assigned, err := s.assignments.ExistsTeacherSubject(ctx, teacherID, req.GradeID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !assigned {
		return nil, appErrors.ErrNotAssigned
	}

	exists, err := s.repo.ExistsWeekly(ctx, teacherID, req.SubjectID, req.GradeID, req.WeekID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check weekly plan")
	}
	if exists {
		return nil, appErrors.ErrPlanExists
	}

	plan := &models.WeeklyPlan{
		TeacherID: teacherID,
		GradeID:   req.GradeID,
		SubjectID: req.SubjectID,
		WeekID:    req.WeekID,
		Notes:     req.Notes,
	}
	if err := s.repo.CreateWeekly(ctx, plan); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrPlanExists
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create weekly plan")
	}

	s.logger.Info("weekly plan created",
		zap.String("plan_id", plan.ID),
		zap.String("teacher_id", teacherID),
		zap.String("week_id", req.WeekID))
	return plan, nil
}

// UpdateNotes replaces the notes of a weekly plan.
func (s *PlanService) UpdateNotes(ctx context.Context, id string, req UpdatePlanNotesRequest, actor *models.JWTClaims) (*models.WeeklyPlan, error) {
	if _, err := s.loadOwnedWeekly(ctx, id, actor); err != nil {
		return nil, err
	}

	plan, err := s.repo.UpdateNotes(ctx, id, req.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "weekly plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notes")
	}

	s.invalidateCompletePlan(ctx, id)
	return plan, nil
}

// DeleteWeekly removes a weekly plan and all of its daily plans.
func (s *PlanService) DeleteWeekly(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.loadOwnedWeekly(ctx, id, actor); err != nil {
		return err
	}

	if err := s.repo.DeleteWeeklyCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "weekly plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete weekly plan")
	}

	s.invalidateCompletePlan(ctx, id)
	s.logger.Info("weekly plan deleted", zap.String("plan_id", id))
	return nil
}

// Complete returns the joined read-only view of a weekly plan, served
// from cache when possible.
func (s *PlanService) Complete(ctx context.Context, id string, actor *models.JWTClaims) (*models.WeeklyPlanComplete, error) {
	if _, err := s.loadOwnedWeekly(ctx, id, actor); err != nil {
		return nil, err
	}

	key := repository.CompletePlanKey(id)
	if s.cache != nil {
		var cached models.WeeklyPlanComplete
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCacheLookup(true)
			return &cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			s.recordCacheLookup(false)
		} else {
			s.logger.Warn("complete plan cache read failed", zap.Error(err))
		}
	}

	complete, err := s.repo.Complete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "weekly plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assemble complete plan")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, complete, s.cacheTTL); err != nil {
			s.logger.Warn("complete plan cache write failed", zap.Error(err))
		}
	}
	return complete, nil
}

// ListDaily returns the daily plans of a weekly plan ordered by day.
func (s *PlanService) ListDaily(ctx context.Context, weeklyPlanID string, actor *models.JWTClaims) ([]models.DailyPlan, error) {
	if _, err := s.loadOwnedWeekly(ctx, weeklyPlanID, actor); err != nil {
		return nil, err
	}

	plans, err := s.repo.ListDailyByWeekly(ctx, weeklyPlanID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list daily plans")
	}
	return plans, nil
}

// CreateDaily records the content for one weekday of a weekly plan. Each
// weekday holds at most one daily plan, and fields outside the subject
// type's set are cleared before storage.
func (s *PlanService) CreateDaily(ctx context.Context, req DailyPlanRequest, actor *models.JWTClaims) (*models.DailyPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid daily plan payload")
	}

	weekly, err := s.loadOwnedWeekly(ctx, req.WeeklyPlanID, actor)
	if err != nil {
		return nil, err
	}

	occupied, err := s.repo.ExistsDay(ctx, req.WeeklyPlanID, req.DayOfWeek, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check daily plan day")
	}
	if occupied {
		return nil, appErrors.Clone(appErrors.ErrPlanExists, "a daily plan already exists for this day")
	}

	plan, err := s.buildDaily(ctx, weekly, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateDaily(ctx, plan); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrPlanExists, "a daily plan already exists for this day")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create daily plan")
	}

	s.invalidateCompletePlan(ctx, req.WeeklyPlanID)
	return plan, nil
}

// UpdateDaily modifies one daily plan, re-applying the sibling-day and
// subject-type field rules.
func (s *PlanService) UpdateDaily(ctx context.Context, id string, req DailyPlanRequest, actor *models.JWTClaims) (*models.DailyPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid daily plan payload")
	}

	existing, err := s.repo.FindDailyByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "daily plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily plan")
	}

	weekly, err := s.loadOwnedWeekly(ctx, existing.WeeklyPlanID, actor)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != existing.DayOfWeek {
		occupied, err := s.repo.ExistsDay(ctx, existing.WeeklyPlanID, req.DayOfWeek, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check daily plan day")
		}
		if occupied {
			return nil, appErrors.Clone(appErrors.ErrPlanExists, "a daily plan already exists for this day")
		}
	}

	req.WeeklyPlanID = existing.WeeklyPlanID
	plan, err := s.buildDaily(ctx, weekly, req)
	if err != nil {
		return nil, err
	}
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateDaily(ctx, plan); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrPlanExists, "a daily plan already exists for this day")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update daily plan")
	}

	s.invalidateCompletePlan(ctx, existing.WeeklyPlanID)
	return plan, nil
}

// DeleteDaily removes one daily plan.
func (s *PlanService) DeleteDaily(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindDailyByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "daily plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily plan")
	}

	if _, err := s.loadOwnedWeekly(ctx, existing.WeeklyPlanID, actor); err != nil {
		return err
	}

	if err := s.repo.DeleteDaily(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "daily plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete daily plan")
	}

	s.invalidateCompletePlan(ctx, existing.WeeklyPlanID)
	return nil
}

func (s *PlanService) buildDaily(ctx context.Context, weekly *models.WeeklyPlan, req DailyPlanRequest) (*models.DailyPlan, error) {
	subject, err := s.subjects.FindByID(ctx, weekly.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan subject")
	}

	plan := &models.DailyPlan{
		WeeklyPlanID:  req.WeeklyPlanID,
		DayOfWeek:     req.DayOfWeek,
		Topic:         req.Topic,
		BooksAndPages: req.BooksAndPages,
		Homework:      req.Homework,
		Assignments:   req.Assignments,
		RequiredItems: req.RequiredItems,
		Skill:         req.Skill,
		Activity:      req.Activity,
		Notes:         req.Notes,
	}
	if req.HomeworkDueDate != nil && *req.HomeworkDueDate != "" {
		due, err := time.Parse("2006-01-02", *req.HomeworkDueDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid homework due date")
		}
		plan.HomeworkDueDate = &due
	}
	plan.Restrict(subject.Type)
	return plan, nil
}

func (s *PlanService) loadOwnedWeekly(ctx context.Context, id string, actor *models.JWTClaims) (*models.WeeklyPlan, error) {
	plan, err := s.repo.FindWeeklyByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "weekly plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly plan")
	}
	if actor != nil && !actor.IsAdmin && plan.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot access another teacher's plan")
	}
	return plan, nil
}

func (s *PlanService) invalidateCompletePlan(ctx context.Context, planID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, repository.CompletePlanKey(planID)); err != nil {
		s.logger.Warn("complete plan cache invalidation failed", zap.Error(err))
	}
}

func (s *PlanService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
