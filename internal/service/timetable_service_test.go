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

type timetableReaderStub struct {
	byClass []models.TimetableEntryDetail
	byID    map[string]*models.TimetableEntry
	deleted []string
}

func (s *timetableReaderStub) ListByClass(ctx context.Context, tenantID, classID string) ([]models.TimetableEntryDetail, error) {
	return s.byClass, nil
}

func (s *timetableReaderStub) ListByTeacher(ctx context.Context, tenantID, teacherID string) ([]models.TimetableEntryDetail, error) {
	return s.byClass, nil
}

func (s *timetableReaderStub) FindByID(ctx context.Context, tenantID, id string) (*models.TimetableEntry, error) {
	if entry, ok := s.byID[id]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *timetableReaderStub) Delete(ctx context.Context, tenantID, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type slotListStub struct{ items []models.TimeSlot }

func (s slotListStub) ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error) {
	return s.items, nil
}

func detail(day string, slotNumber int, subject string) models.TimetableEntryDetail {
	return models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: subject + "-entry", Day: day},
		SubjectName:    subject,
		SlotNumber:     slotNumber,
	}
}

func TestGridByClassArrangesCells(t *testing.T) {
	reader := &timetableReaderStub{byClass: []models.TimetableEntryDetail{
		detail("Monday", 1, "Math"),
		detail("Monday", 2, "Physics"),
		detail("Wednesday", 1, "Chemistry"),
	}}
	slots := slotListStub{items: []models.TimeSlot{
		{ID: "mon-1", Day: "Monday", SlotNumber: 1},
		{ID: "mon-2", Day: "Monday", SlotNumber: 2},
		{ID: "tue-1", Day: "Tuesday", SlotNumber: 1},
	}}
	classes := classReaderStub{classes: map[string]*models.Class{"class-1": {ID: "class-1"}}}
	svc := NewTimetableService(reader, classes, slots, nil, nil)

	grid, err := svc.GridByClass(context.Background(), "u1", "class-1")
	require.NoError(t, err)

	assert.Equal(t, models.Weekdays, grid.Days)
	require.Len(t, grid.Slots, 2, "slot headers deduped by slot number")
	require.NotNil(t, grid.Cells["Monday"][1])
	assert.Equal(t, "Math", grid.Cells["Monday"][1].SubjectName)
	assert.Equal(t, "Physics", grid.Cells["Monday"][2].SubjectName)
	assert.Equal(t, "Chemistry", grid.Cells["Wednesday"][1].SubjectName)
	assert.Nil(t, grid.Cells["Friday"][1])
}

func TestGridByClassUnknownClass(t *testing.T) {
	svc := NewTimetableService(&timetableReaderStub{}, classReaderStub{classes: map[string]*models.Class{}}, slotListStub{}, nil, nil)

	_, err := svc.GridByClass(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteEntry(t *testing.T) {
	reader := &timetableReaderStub{byID: map[string]*models.TimetableEntry{"e1": {ID: "e1"}}}
	classes := classReaderStub{classes: map[string]*models.Class{}}
	svc := NewTimetableService(reader, classes, slotListStub{}, nil, nil)

	require.NoError(t, svc.DeleteEntry(context.Background(), "u1", "e1"))
	assert.Equal(t, []string{"e1"}, reader.deleted)

	err := svc.DeleteEntry(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
