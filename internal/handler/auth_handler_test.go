package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
)

type userStoreMock struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newUserStoreMock() *userStoreMock {
	return &userStoreMock{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
}

func (s *userStoreMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreMock) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	return nil
}

func (s *userStoreMock) UpdateProfile(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *userStoreMock) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.users[userID].PasswordHash = passwordHash
	return nil
}

func (s *userStoreMock) TouchLastLogin(ctx context.Context, userID string) error {
	return nil
}

func (s *userStoreMock) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *userStoreMock) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := s.tokens[token]; ok && !t.Revoked {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreMock) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := s.tokens[token]; ok {
		t.Revoked = true
	}
	return nil
}

func (s *userStoreMock) RevokeRefreshTokensByUser(ctx context.Context, userID string) error {
	for _, t := range s.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(newUserStoreMock(), config.JWTConfig{
		Secret:            "test_secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}, nil, nil)

	h := NewAuthHandler(authSvc)
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	protected := r.Group("", middleware.JWT(authSvc))
	protected.GET("/auth/me", h.Profile)
	return r, authSvc
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupThenAccessProtectedRoute(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := postJSON(t, r, "/auth/signup", models.SignupRequest{
		FullName:    "Dana Iqbal",
		Email:       "dana@example.edu",
		Password:    "sup3rsecret",
		Institution: "Example Polytechnic",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var signup struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	require.NotEmpty(t, signup.Data.AccessToken)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Data.AccessToken)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	var profile struct {
		Data models.UserInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &profile))
	require.Equal(t, "dana@example.edu", profile.Data.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := postJSON(t, r, "/auth/signup", models.SignupRequest{
		FullName: "Dana Iqbal",
		Email:    "dana@example.edu",
		Password: "sup3rsecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	login := postJSON(t, r, "/auth/login", models.LoginRequest{
		Email:    "dana@example.edu",
		Password: "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, login.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsGarbageToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
