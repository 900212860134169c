package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type generatorClassReader interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Class, error)
}

type generatorSubjectReader interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Subject, error)
}

type generatorTeacherReader interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Teacher, error)
}

type generatorRoomReader interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Room, error)
}

type generatorSlotReader interface {
	ListByDay(ctx context.Context, tenantID, day string) ([]models.TimeSlot, error)
}

type generatorTimetableWriter interface {
	DeleteByClassTx(ctx context.Context, tx *sqlx.Tx, tenantID, classID string) error
	BulkCreateTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// GeneratorService builds a class's weekly timetable with a round-robin
// allocator and persists it atomically.
type GeneratorService struct {
	classes   generatorClassReader
	subjects  generatorSubjectReader
	teachers  generatorTeacherReader
	rooms     generatorRoomReader
	slots     generatorSlotReader
	timetable generatorTimetableWriter
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGeneratorService wires generator dependencies.
func NewGeneratorService(
	classes generatorClassReader,
	subjects generatorSubjectReader,
	teachers generatorTeacherReader,
	rooms generatorRoomReader,
	slots generatorSlotReader,
	timetable generatorTimetableWriter,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *GeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		classes:   classes,
		subjects:  subjects,
		teachers:  teachers,
		rooms:     rooms,
		slots:     slots,
		timetable: timetable,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

// Generate replaces the class's timetable with a fresh round-robin allocation.
//
// Subjects, teachers and rooms are walked with shared cursors that persist
// across days. Teachers and rooms wrap around; each subject is placed exactly
// once, and the run stops when the subject list is exhausted or all slots are
// filled. The previous timetable is deleted and the new entries inserted in a
// single transaction, so a failed run never leaves the class half scheduled.
func (s *GeneratorService) Generate(ctx context.Context, tenantID string, req models.GenerateRequest) (*models.GenerateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	if _, err := s.classes.FindByID(ctx, tenantID, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, err
	}

	subjects, err := s.subjects.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(teachers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no teachers available for generation")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no rooms available for generation")
	}

	slotsByDay := make(map[string][]models.TimeSlot, len(models.Weekdays))
	totalSlots := 0
	for _, day := range models.Weekdays {
		daySlots, err := s.slots.ListByDay(ctx, tenantID, day)
		if err != nil {
			return nil, err
		}
		slotsByDay[day] = daySlots
		totalSlots += len(daySlots)
	}
	if totalSlots == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no time slots defined")
	}

	entries := s.allocate(tenantID, req.ClassID, subjects, teachers, rooms, slotsByDay)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "begin generation transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetable.DeleteByClassTx(ctx, tx, tenantID, req.ClassID); err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		if err = s.timetable.BulkCreateTx(ctx, tx, entries); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "commit generation transaction")
	}

	s.logger.Info("timetable generated",
		zap.String("class_id", req.ClassID),
		zap.Int("entries", len(entries)))

	return &models.GenerateResult{ClassID: req.ClassID, EntryCount: len(entries), Entries: entries}, nil
}

// allocate walks Monday through Friday, each day's slots in slot number order,
// placing one subject per slot until the subject list runs out.
func (s *GeneratorService) allocate(
	tenantID, classID string,
	subjects []models.Subject,
	teachers []models.Teacher,
	rooms []models.Room,
	slotsByDay map[string][]models.TimeSlot,
) []models.TimetableEntry {
	var entries []models.TimetableEntry
	subjectIdx, teacherIdx, roomIdx := 0, 0, 0

	for _, day := range models.Weekdays {
		for _, slot := range slotsByDay[day] {
			if subjectIdx >= len(subjects) {
				return entries
			}
			entries = append(entries, models.TimetableEntry{
				TenantID:   tenantID,
				ClassID:    classID,
				SubjectID:  subjects[subjectIdx].ID,
				TeacherID:  teachers[teacherIdx%len(teachers)].ID,
				RoomID:     rooms[roomIdx%len(rooms)].ID,
				TimeSlotID: slot.ID,
				Day:        day,
			})
			subjectIdx++
			teacherIdx++
			roomIdx++
		}
	}
	return entries
}
