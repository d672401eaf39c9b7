package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
)

type stubUserRepo struct {
	users   map[string]*models.User
	created *models.User
}

func (s *stubUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range s.users {
		if filter.IsAdmin != nil && u.IsAdmin != *filter.IsAdmin {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	for id, u := range s.users {
		if id == excludeID {
			continue
		}
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "u-new"
	s.created = user
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.IsAdmin = isAdmin
	return nil
}

func (s *stubUserRepo) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

func newUserServiceFixture() (*UserService, *stubUserRepo) {
	repo := &stubUserRepo{users: map[string]*models.User{
		"u1":    {ID: "u1", Username: "amal", FullName: "Amal Haddad"},
		"admin": {ID: "admin", Username: "root", FullName: "Site Admin", IsAdmin: true},
	}}
	return NewUserService(repo, nil, nil), repo
}

func adminClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, IsAdmin: true}
}

func TestUserServiceRegisterLowercasesUsername(t *testing.T) {
	svc, repo := newUserServiceFixture()

	user, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "  NewTeacher ",
		Password: "secret123",
		FullName: "New Teacher",
	})
	require.NoError(t, err)
	assert.Equal(t, "newteacher", user.Username)
	assert.NotEqual(t, "secret123", repo.created.PasswordHash)
}

func TestUserServiceRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "Amal",
		Password: "secret123",
		FullName: "Another Amal",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceRegisterInvalidPayload(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.Register(context.Background(), RegisterUserRequest{Username: "ab", Password: "short"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserServiceDeleteSelfBlocked(t *testing.T) {
	svc, repo := newUserServiceFixture()

	err := svc.Delete(context.Background(), "admin", adminClaims("admin"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, repo.users, "admin")

	require.NoError(t, svc.Delete(context.Background(), "u1", adminClaims("admin")))
	assert.NotContains(t, repo.users, "u1")
}

func TestUserServiceSetRoleSelfBlocked(t *testing.T) {
	svc, repo := newUserServiceFixture()

	_, err := svc.SetRole(context.Background(), "admin", SetRoleRequest{IsAdmin: false}, adminClaims("admin"))
	require.Error(t, err)
	assert.True(t, repo.users["admin"].IsAdmin)

	updated, err := svc.SetRole(context.Background(), "u1", SetRoleRequest{IsAdmin: true}, adminClaims("admin"))
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
}

func TestUserServiceUpdateProfileOwnership(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{FullName: "Hijacked"}, teacherClaims("u2"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	updated, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{FullName: "Amal H."}, teacherClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, "Amal H.", updated.FullName)
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
