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
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
)

type teacherRepoMock struct {
	teachers map[string]*models.Teacher
}

func newTeacherRepoMock() *teacherRepoMock {
	return &teacherRepoMock{teachers: map[string]*models.Teacher{}}
}

func (m *teacherRepoMock) List(ctx context.Context, tenantID string, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, len(out), nil
}

func (m *teacherRepoMock) FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok && t.TenantID == tenantID {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *teacherRepoMock) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *teacherRepoMock) Update(ctx context.Context, teacher *models.Teacher) error {
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *teacherRepoMock) Delete(ctx context.Context, tenantID, id string) error {
	delete(m.teachers, id)
	return nil
}

func newTeacherTestRouter(t *testing.T) (*gin.Engine, *teacherRepoMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newTeacherRepoMock()
	h := NewTeacherHandler(service.NewTeacherService(repo, nil, nil, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "tenant-1"})
	})
	r.GET("/teachers", h.List)
	r.GET("/teachers/:id", h.Get)
	r.POST("/teachers", h.Create)
	r.DELETE("/teachers/:id", h.Delete)
	return r, repo
}

func TestTeacherCreateAndGet(t *testing.T) {
	r, repo := newTeacherTestRouter(t)

	payload, _ := json.Marshal(models.TeacherRequest{
		Name:       "A. Rahman",
		Department: "Computer Science",
	})
	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.teachers, 1)

	var created struct {
		Data models.Teacher `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "A. Rahman", created.Data.Name)

	get, _ := http.NewRequest(http.MethodGet, "/teachers/"+created.Data.ID, nil)
	gw := httptest.NewRecorder()
	r.ServeHTTP(gw, get)
	require.Equal(t, http.StatusOK, gw.Code)
}

func TestTeacherCreateRejectsMissingName(t *testing.T) {
	r, repo := newTeacherTestRouter(t)

	payload, _ := json.Marshal(models.TeacherRequest{Department: "Mathematics"})
	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, repo.teachers)
}

func TestTeacherGetUnknownReturnsNotFound(t *testing.T) {
	r, _ := newTeacherTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/teachers/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeacherDelete(t *testing.T) {
	r, repo := newTeacherTestRouter(t)
	repo.teachers["t1"] = &models.Teacher{ID: "t1", TenantID: "tenant-1", Name: "A. Rahman"}

	req, _ := http.NewRequest(http.MethodDelete, "/teachers/t1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, repo.teachers)
}
