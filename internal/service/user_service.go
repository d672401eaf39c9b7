package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/hash"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	DeleteCascade(ctx context.Context, id string) error
}

// RegisterUserRequest captures fields for creating users.
type RegisterUserRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsAdmin  bool    `json:"is_admin"`
}

// UpdateProfileRequest modifies profile fields.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// SetRoleRequest toggles the admin flag of a user.
type SetRoleRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// UserService handles account management workflows.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated users.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return users, pagination, nil
}

// Get returns a user by identifier.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	exists, err := s.repo.ExistsByUsername(ctx, req.Username, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
	}

	passwordHash, err := hash.Password(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Email:        req.Email,
		IsAdmin:      req.IsAdmin,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// UpdateProfile modifies the full name and email of a user.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest, actor *models.JWTClaims) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if !actor.IsAdmin && actor.UserID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot modify another user's profile")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	user.Email = req.Email

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}

// Delete removes the user and every dependent record. Users may not
// delete their own account.
func (s *UserService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor != nil && actor.UserID == id {
		return appErrors.Clone(appErrors.ErrValidation, "cannot delete your own account")
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

// SetRole flips the admin flag. Users may not change their own role.
func (s *UserService) SetRole(ctx context.Context, id string, req SetRoleRequest, actor *models.JWTClaims) (*models.User, error) {
	if actor != nil && actor.UserID == id {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot change your own admin role")
	}

	if err := s.repo.SetAdmin(ctx, id, req.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	return s.Get(ctx, id)
}
