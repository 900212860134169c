package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type timetableReader interface {
	ListByClass(ctx context.Context, tenantID, classID string) ([]models.TimetableEntryDetail, error)
	ListByTeacher(ctx context.Context, tenantID, teacherID string) ([]models.TimetableEntryDetail, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.TimetableEntry, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type timetableClassReader interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Class, error)
}

type timetableSlotReader interface {
	ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error)
}

// TimetableService serves timetable views and entry maintenance.
type TimetableService struct {
	timetable timetableReader
	classes   timetableClassReader
	slots     timetableSlotReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService wires timetable view dependencies.
func NewTimetableService(
	timetable timetableReader,
	classes timetableClassReader,
	slots timetableSlotReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{timetable: timetable, classes: classes, slots: slots, validator: validate, logger: logger}
}

// GridByClass arranges a class's entries into a day-by-slot grid.
func (s *TimetableService) GridByClass(ctx context.Context, tenantID, classID string) (*models.TimetableGrid, error) {
	if _, err := s.classes.FindByID(ctx, tenantID, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, err
	}

	entries, err := s.timetable.ListByClass(ctx, tenantID, classID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	grid := &models.TimetableGrid{
		Days:  models.Weekdays,
		Slots: dedupeSlotNumbers(slots),
		Cells: make(map[string]map[int]*models.TimetableEntryDetail),
	}
	for _, day := range models.Weekdays {
		grid.Cells[day] = make(map[int]*models.TimetableEntryDetail)
	}
	for i := range entries {
		entry := entries[i]
		if grid.Cells[entry.Day] == nil {
			grid.Cells[entry.Day] = make(map[int]*models.TimetableEntryDetail)
		}
		grid.Cells[entry.Day][entry.SlotNumber] = &entry
	}
	return grid, nil
}

// ListByTeacher returns a teacher's entries across all classes.
func (s *TimetableService) ListByTeacher(ctx context.Context, tenantID, teacherID string) ([]models.TimetableEntryDetail, error) {
	return s.timetable.ListByTeacher(ctx, tenantID, teacherID)
}

// DeleteEntry removes a single entry after verifying tenant ownership.
func (s *TimetableService) DeleteEntry(ctx context.Context, tenantID, entryID string) error {
	if _, err := s.timetable.FindByID(ctx, tenantID, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return err
	}
	return s.timetable.Delete(ctx, tenantID, entryID)
}

// dedupeSlotNumbers collapses the tenant's per-day slots into one row per
// slot number for grid headers.
func dedupeSlotNumbers(slots []models.TimeSlot) []models.TimeSlot {
	seen := make(map[int]bool)
	var out []models.TimeSlot
	for _, slot := range slots {
		if seen[slot.SlotNumber] {
			continue
		}
		seen[slot.SlotNumber] = true
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out
}
