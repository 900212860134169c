package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type conflictTimetableReader interface {
	CountByTeacherAt(ctx context.Context, tenantID, teacherID, timeSlotID, day string) (int, error)
	CountByRoomAt(ctx context.Context, tenantID, roomID, timeSlotID, day string) (int, error)
	AvailableRooms(ctx context.Context, tenantID, timeSlotID, day string) ([]models.Room, error)
}

// ConflictService validates proposed bookings against the current timetable.
type ConflictService struct {
	timetable conflictTimetableReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConflictService wires conflict checker dependencies.
func NewConflictService(timetable conflictTimetableReader, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{timetable: timetable, validator: validate, logger: logger}
}

// Check reports whether the proposed booking collides with existing entries.
// The teacher check runs before the room check and both messages are
// accumulated, so a double booking reports both conflicts.
func (s *ConflictService) Check(ctx context.Context, tenantID string, req models.ConflictCheckRequest) (*models.ConflictCheckResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}

	result := &models.ConflictCheckResult{Conflicts: []string{}}

	if req.TeacherID != "" {
		count, err := s.timetable.CountByTeacherAt(ctx, tenantID, req.TeacherID, req.TimeSlotID, req.Day)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			result.Conflicts = append(result.Conflicts, "Teacher already scheduled at this time")
		}
	}

	if req.RoomID != "" {
		count, err := s.timetable.CountByRoomAt(ctx, tenantID, req.RoomID, req.TimeSlotID, req.Day)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			result.Conflicts = append(result.Conflicts, "Room already booked at this time")
		}
	}

	result.HasConflict = len(result.Conflicts) > 0
	return result, nil
}

// AvailableRooms lists the rooms free at the requested slot and day.
func (s *ConflictService) AvailableRooms(ctx context.Context, tenantID string, req models.AvailableRoomsRequest) ([]models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid available rooms payload")
	}
	return s.timetable.AvailableRooms(ctx, tenantID, req.TimeSlotID, req.Day)
}
