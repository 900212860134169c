package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type classReaderStub struct {
	classes map[string]*models.Class
}

func (s classReaderStub) FindByID(ctx context.Context, tenantID, id string) (*models.Class, error) {
	if class, ok := s.classes[id]; ok {
		return class, nil
	}
	return nil, sql.ErrNoRows
}

func (s classReaderStub) ListRecent(ctx context.Context, tenantID string, limit int) ([]models.Class, error) {
	return nil, nil
}

type subjectReaderStub struct{ items []models.Subject }

func (s subjectReaderStub) ListAll(ctx context.Context, tenantID string) ([]models.Subject, error) {
	return s.items, nil
}

type teacherReaderStub struct{ items []models.Teacher }

func (s teacherReaderStub) ListAll(ctx context.Context, tenantID string) ([]models.Teacher, error) {
	return s.items, nil
}

type roomReaderStub struct{ items []models.Room }

func (s roomReaderStub) ListAll(ctx context.Context, tenantID string) ([]models.Room, error) {
	return s.items, nil
}

type slotReaderStub struct{ byDay map[string][]models.TimeSlot }

func (s slotReaderStub) ListByDay(ctx context.Context, tenantID, day string) ([]models.TimeSlot, error) {
	return s.byDay[day], nil
}

type timetableWriterStub struct {
	deleted  []string
	inserted []models.TimetableEntry
	failTx   error
}

func (s *timetableWriterStub) DeleteByClassTx(ctx context.Context, tx *sqlx.Tx, tenantID, classID string) error {
	s.deleted = append(s.deleted, classID)
	return nil
}

func (s *timetableWriterStub) BulkCreateTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error {
	if s.failTx != nil {
		return s.failTx
	}
	s.inserted = append(s.inserted, entries...)
	return nil
}

func newTxProviderMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func mondaySlots(n int) map[string][]models.TimeSlot {
	byDay := make(map[string][]models.TimeSlot)
	for i := 1; i <= n; i++ {
		byDay["Monday"] = append(byDay["Monday"], models.TimeSlot{
			ID:         fmt.Sprintf("slot-%d", i),
			Day:        "Monday",
			SlotNumber: i,
		})
	}
	return byDay
}

func newGeneratorFixture(t *testing.T, writer *timetableWriterStub, slots map[string][]models.TimeSlot, subjects []models.Subject, teachers []models.Teacher, rooms []models.Room) (*GeneratorService, sqlmock.Sqlmock) {
	db, mock := newTxProviderMock(t)
	svc := NewGeneratorService(
		classReaderStub{classes: map[string]*models.Class{"class-1": {ID: "class-1", Name: "CS-3A"}}},
		subjectReaderStub{items: subjects},
		teacherReaderStub{items: teachers},
		roomReaderStub{items: rooms},
		slotReaderStub{byDay: slots},
		writer,
		db,
		nil,
		nil,
	)
	return svc, mock
}

func TestGeneratorRoundRobinWrapsTeachersAndRooms(t *testing.T) {
	subjects := []models.Subject{{ID: "sub-a", Name: "A"}, {ID: "sub-b", Name: "B"}, {ID: "sub-c", Name: "C"}}
	teachers := []models.Teacher{{ID: "t1"}, {ID: "t2"}}
	rooms := []models.Room{{ID: "r1"}, {ID: "r2"}}
	writer := &timetableWriterStub{}
	svc, mock := newGeneratorFixture(t, writer, mondaySlots(3), subjects, teachers, rooms)

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
	require.NoError(t, err)
	require.Equal(t, 3, result.EntryCount)

	expected := []struct {
		subject, teacher, room, slot string
	}{
		{"sub-a", "t1", "r1", "slot-1"},
		{"sub-b", "t2", "r2", "slot-2"},
		{"sub-c", "t1", "r1", "slot-3"},
	}
	require.Len(t, writer.inserted, 3)
	for i, want := range expected {
		assert.Equal(t, want.subject, writer.inserted[i].SubjectID)
		assert.Equal(t, want.teacher, writer.inserted[i].TeacherID)
		assert.Equal(t, want.room, writer.inserted[i].RoomID)
		assert.Equal(t, want.slot, writer.inserted[i].TimeSlotID)
		assert.Equal(t, "Monday", writer.inserted[i].Day)
	}
	assert.Equal(t, []string{"class-1"}, writer.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratorCursorsPersistAcrossDays(t *testing.T) {
	slots := map[string][]models.TimeSlot{
		"Monday":  {{ID: "mon-1", Day: "Monday", SlotNumber: 1}},
		"Tuesday": {{ID: "tue-1", Day: "Tuesday", SlotNumber: 1}},
	}
	subjects := []models.Subject{{ID: "sub-a"}, {ID: "sub-b"}}
	teachers := []models.Teacher{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	rooms := []models.Room{{ID: "r1"}}
	writer := &timetableWriterStub{}
	svc, mock := newGeneratorFixture(t, writer, slots, subjects, teachers, rooms)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
	require.NoError(t, err)
	require.Len(t, writer.inserted, 2)
	assert.Equal(t, "t1", writer.inserted[0].TeacherID)
	assert.Equal(t, "Monday", writer.inserted[0].Day)
	assert.Equal(t, "t2", writer.inserted[1].TeacherID, "teacher cursor should carry over to the next day")
	assert.Equal(t, "Tuesday", writer.inserted[1].Day)
	assert.Equal(t, "r1", writer.inserted[1].RoomID)
}

func TestGeneratorEachSubjectPlacedOnce(t *testing.T) {
	subjects := []models.Subject{{ID: "sub-a"}, {ID: "sub-b"}}
	writer := &timetableWriterStub{}
	svc, mock := newGeneratorFixture(t, writer, mondaySlots(5), subjects, []models.Teacher{{ID: "t1"}}, []models.Room{{ID: "r1"}})

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.EntryCount, "generation stops once subjects are exhausted")
	seen := map[string]int{}
	for _, entry := range writer.inserted {
		seen[entry.SubjectID]++
	}
	assert.Equal(t, map[string]int{"sub-a": 1, "sub-b": 1}, seen)
}

func TestGeneratorEmptySubjectsStillClearsTimetable(t *testing.T) {
	writer := &timetableWriterStub{}
	svc, mock := newGeneratorFixture(t, writer, mondaySlots(2), nil, []models.Teacher{{ID: "t1"}}, []models.Room{{ID: "r1"}})

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.EntryCount)
	assert.Equal(t, []string{"class-1"}, writer.deleted)
	assert.Empty(t, writer.inserted)
}

func TestGeneratorPreconditions(t *testing.T) {
	writer := &timetableWriterStub{}

	t.Run("missing class", func(t *testing.T) {
		svc, _ := newGeneratorFixture(t, writer, mondaySlots(1), nil, []models.Teacher{{ID: "t1"}}, []models.Room{{ID: "r1"}})
		_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "missing"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})

	t.Run("no teachers", func(t *testing.T) {
		svc, _ := newGeneratorFixture(t, writer, mondaySlots(1), nil, nil, []models.Room{{ID: "r1"}})
		_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	})

	t.Run("no rooms", func(t *testing.T) {
		svc, _ := newGeneratorFixture(t, writer, mondaySlots(1), nil, []models.Teacher{{ID: "t1"}}, nil)
		_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	})

	t.Run("no slots", func(t *testing.T) {
		svc, _ := newGeneratorFixture(t, writer, map[string][]models.TimeSlot{}, nil, []models.Teacher{{ID: "t1"}}, []models.Room{{ID: "r1"}})
		_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	})
}

func TestGeneratorRollsBackOnInsertFailure(t *testing.T) {
	writer := &timetableWriterStub{failTx: errors.New("insert failed")}
	svc, mock := newGeneratorFixture(t, writer, mondaySlots(1), []models.Subject{{ID: "sub-a"}}, []models.Teacher{{ID: "t1"}}, []models.Room{{ID: "r1"}})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Generate(context.Background(), "u1", models.GenerateRequest{ClassID: "class-1"})
	require.Error(t, err)
	assert.True(t, regexp.MustCompile("insert failed").MatchString(err.Error()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
