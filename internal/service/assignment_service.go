package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
)

type assignmentRepository interface {
	ListGradesByTeacher(ctx context.Context, teacherID string) ([]models.TeacherGradeDetail, error)
	UpsertTeacherGrade(ctx context.Context, teacherID, gradeID string) error
	DeleteTeacherGrade(ctx context.Context, teacherID, gradeID string) error
	ListSubjectsByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSubjectDetail, error)
	ExistsTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) (bool, error)
	UpsertTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) error
	DeleteTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type gradeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Grade, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// AssignTeacherGradeRequest assigns a teacher to a grade.
type AssignTeacherGradeRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	GradeID   string `json:"grade_id" validate:"required"`
}

// AssignTeacherSubjectRequest records a subject competency within a grade.
type AssignTeacherSubjectRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	GradeID   string `json:"grade_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// AssignmentService manages teacher-grade and teacher-subject assignments.
type AssignmentService struct {
	repo      assignmentRepository
	users     userFinder
	grades    gradeFinder
	subjects  subjectFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(repo assignmentRepository, users userFinder, grades gradeFinder, subjects subjectFinder, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, users: users, grades: grades, subjects: subjects, validator: validate, logger: logger}
}

// ListGrades returns the teacher's grade assignments. Teachers may only
// read their own; admins may read any.
func (s *AssignmentService) ListGrades(ctx context.Context, teacherID string, actor *models.JWTClaims) ([]models.TeacherGradeDetail, error) {
	if actor != nil && !actor.IsAdmin && actor.UserID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another teacher's assignments")
	}
	assignments, err := s.repo.ListGradesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade assignments")
	}
	return assignments, nil
}

// AssignGrade links the teacher to the grade; repeating the call is a no-op.
func (s *AssignmentService) AssignGrade(ctx context.Context, req AssignTeacherGradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if err := s.checkTeacherAndGrade(ctx, req.TeacherID, req.GradeID); err != nil {
		return err
	}

	if err := s.repo.UpsertTeacherGrade(ctx, req.TeacherID, req.GradeID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign grade")
	}
	return nil
}

// UnassignGrade removes the teacher-grade link.
func (s *AssignmentService) UnassignGrade(ctx context.Context, teacherID, gradeID string) error {
	if err := s.repo.DeleteTeacherGrade(ctx, teacherID, gradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove assignment")
	}
	return nil
}

// ListSubjects returns the teacher's subject assignments. Teachers may
// only read their own; admins may read any.
func (s *AssignmentService) ListSubjects(ctx context.Context, teacherID string, actor *models.JWTClaims) ([]models.TeacherSubjectDetail, error) {
	if actor != nil && !actor.IsAdmin && actor.UserID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another teacher's assignments")
	}
	assignments, err := s.repo.ListSubjectsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject assignments")
	}
	return assignments, nil
}

// AssignSubject records the competency; repeating the call is a no-op.
func (s *AssignmentService) AssignSubject(ctx context.Context, req AssignTeacherSubjectRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if err := s.checkTeacherAndGrade(ctx, req.TeacherID, req.GradeID); err != nil {
		return err
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if err := s.repo.UpsertTeacherSubject(ctx, req.TeacherID, req.GradeID, req.SubjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign subject")
	}
	return nil
}

// UnassignSubject removes the competency record.
func (s *AssignmentService) UnassignSubject(ctx context.Context, teacherID, gradeID, subjectID string) error {
	if err := s.repo.DeleteTeacherSubject(ctx, teacherID, gradeID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove assignment")
	}
	return nil
}

func (s *AssignmentService) checkTeacherAndGrade(ctx context.Context, teacherID, gradeID string) error {
	if _, err := s.users.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if _, err := s.grades.FindByID(ctx, gradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return nil
}
