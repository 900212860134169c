package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type subjectRepoStub struct {
	items map[string]*models.Subject
	codes map[string]string
}

func newSubjectRepoStub() *subjectRepoStub {
	return &subjectRepoStub{items: map[string]*models.Subject{}, codes: map[string]string{}}
}

func (s *subjectRepoStub) List(ctx context.Context, tenantID string, filter models.SubjectFilter) ([]models.Subject, int, error) {
	var out []models.Subject
	for _, subject := range s.items {
		out = append(out, *subject)
	}
	return out, len(out), nil
}

func (s *subjectRepoStub) FindByID(ctx context.Context, tenantID, id string) (*models.Subject, error) {
	if subject, ok := s.items[id]; ok {
		return subject, nil
	}
	return nil, sql.ErrNoRows
}

func (s *subjectRepoStub) ExistsByCode(ctx context.Context, tenantID, code, excludeID string) (bool, error) {
	id, ok := s.codes[code]
	return ok && id != excludeID, nil
}

func (s *subjectRepoStub) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = "subject-" + subject.Code
	s.items[subject.ID] = subject
	s.codes[subject.Code] = subject.ID
	return nil
}

func (s *subjectRepoStub) Update(ctx context.Context, subject *models.Subject) error {
	s.items[subject.ID] = subject
	return nil
}

func (s *subjectRepoStub) Delete(ctx context.Context, tenantID, id string) error {
	delete(s.items, id)
	return nil
}

func TestSubjectCreateDefaultsToTheory(t *testing.T) {
	svc := NewSubjectService(newSubjectRepoStub(), nil, nil, nil)

	subject, err := svc.Create(context.Background(), "u1", models.SubjectRequest{Name: "Math", Code: "MA101"})
	require.NoError(t, err)
	assert.Equal(t, models.SubjectTheory, subject.Kind)
	assert.Equal(t, "u1", subject.TenantID)
}

func TestSubjectCreateRejectsDuplicateCode(t *testing.T) {
	svc := NewSubjectService(newSubjectRepoStub(), nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", models.SubjectRequest{Name: "Math", Code: "MA101"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "u1", models.SubjectRequest{Name: "Math II", Code: "MA101"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestSubjectUpdateAllowsKeepingOwnCode(t *testing.T) {
	repo := newSubjectRepoStub()
	svc := NewSubjectService(repo, nil, nil, nil)

	subject, err := svc.Create(context.Background(), "u1", models.SubjectRequest{Name: "Math", Code: "MA101"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "u1", subject.ID, models.SubjectRequest{Name: "Mathematics", Code: "MA101"})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", updated.Name)
}
