package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/hash"
)

type stubAuthRepo struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func (s *stubAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if u, ok := s.users[id]; ok {
		u.PasswordHash = passwordHash
		return nil
	}
	return sql.ErrNoRows
}

func (s *stubAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if s.tokens == nil {
		s.tokens = make(map[string]*models.RefreshToken)
	}
	s.tokens[token.Token] = token
	return nil
}

func (s *stubAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := s.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	s.revoked = append(s.revoked, id)
	for _, t := range s.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (s *stubAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, t := range s.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubAuthRepo) {
	t.Helper()
	stored, err := hash.Password("secret123")
	require.NoError(t, err)

	repo := &stubAuthRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "amal", PasswordHash: stored, FullName: "Amal Haddad"},
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		Issuer:             "lesson-planner",
	})
	return svc, repo
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	svc, repo := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "amal", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "amal", res.User.Username)
	assert.Len(t, repo.tokens, 1)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "amal", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "amal", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, res.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// revoked tokens cannot be reused
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestAuthServiceChangePasswordRules(t *testing.T) {
	svc, repo := newAuthFixture(t)

	// self change requires the old password
	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newsecret",
	}, &models.JWTClaims{UserID: "u1"})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newsecret",
	}, &models.JWTClaims{UserID: "u1"})
	require.NoError(t, err)

	ok, err := hash.Verify("newsecret", repo.users["u1"].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// admins reset without the old password
	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		NewPassword: "adminreset",
	}, &models.JWTClaims{UserID: "a1", IsAdmin: true})
	require.NoError(t, err)

	// other teachers cannot touch the account
	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		NewPassword: "sneaky", OldPassword: "adminreset",
	}, &models.JWTClaims{UserID: "t2"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
