package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type authUsersStub struct {
	users    map[string]*models.User
	tokens   map[string]*models.RefreshToken
	revoked  []string
	lastSeen string
}

func newAuthUsersStub() *authUsersStub {
	return &authUsersStub{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
}

func (s *authUsersStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authUsersStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authUsersStub) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-1"
	s.users[user.ID] = user
	return nil
}

func (s *authUsersStub) UpdateProfile(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *authUsersStub) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.users[userID].PasswordHash = passwordHash
	return nil
}

func (s *authUsersStub) TouchLastLogin(ctx context.Context, userID string) error {
	s.lastSeen = userID
	return nil
}

func (s *authUsersStub) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *authUsersStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok && !stored.Revoked {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authUsersStub) RevokeRefreshToken(ctx context.Context, token string) error {
	if stored, ok := s.tokens[token]; ok {
		stored.Revoked = true
	}
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *authUsersStub) RevokeRefreshTokensByUser(ctx context.Context, userID string) error {
	for _, stored := range s.tokens {
		if stored.UserID == userID {
			stored.Revoked = true
		}
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, RefreshExpiration: 24 * time.Hour}
}

func TestSignupThenLogin(t *testing.T) {
	users := newAuthUsersStub()
	svc := NewAuthService(users, testJWTConfig(), nil, nil)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		FullName: "Admin",
		Email:    "admin@example.edu",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", login.User.ID)
	assert.Equal(t, "user-1", users.lastSeen)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newAuthUsersStub()
	svc := NewAuthService(users, testJWTConfig(), nil, nil)

	_, err := svc.Signup(context.Background(), models.SignupRequest{FullName: "A", Email: "a@example.edu", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), models.SignupRequest{FullName: "B", Email: "a@example.edu", Password: "secret2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newAuthUsersStub()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	users.users["user-1"] = &models.User{ID: "user-1", Email: "a@example.edu", PasswordHash: string(hash), Active: true}
	svc := NewAuthService(users, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@example.edu", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	users := newAuthUsersStub()
	svc := NewAuthService(users, testJWTConfig(), nil, nil)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{FullName: "A", Email: "a@example.edu", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)
	assert.Contains(t, users.revoked, resp.RefreshToken)

	// old token cannot be replayed
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	users := newAuthUsersStub()
	svc := NewAuthService(users, testJWTConfig(), nil, nil)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{FullName: "A", Email: "a@example.edu", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "a@example.edu", Password: "secret2"})
	require.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newAuthUsersStub(), testJWTConfig(), nil, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
