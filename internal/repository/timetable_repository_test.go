package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestTimetableRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1 AND teacher_id = $2 AND time_slot_id = $3 AND day = $4")).
		WithArgs("u1", "t1", "slot1", "Monday").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountByTeacherAt(context.Background(), "u1", "t1", "slot1", "Monday")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1 AND room_id = $2 AND time_slot_id = $3 AND day = $4")).
		WithArgs("u1", "r1", "slot1", "Monday").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err = repo.CountByRoomAt(context.Background(), "u1", "r1", "slot1", "Monday")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryAvailableRooms(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "room_number", "capacity", "room_type", "has_projector", "has_lab_equipment", "created_at", "updated_at"}).
		AddRow("r2", "u1", "Physics Lab", "201", 30, "Lab", true, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE tenant_id = $1 AND id NOT IN (")).
		WithArgs("u1", "slot1", "Monday").
		WillReturnRows(rows)

	rooms, err := repo.AvailableRooms(context.Background(), "u1", "slot1", "Monday")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceWithinTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE tenant_id = $1 AND class_id = $2")).
		WithArgs("u1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO timetable_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByClassTx(ctx, tx, "u1", "c1"))
	entries := []models.TimetableEntry{
		{TenantID: "u1", ClassID: "c1", SubjectID: "s1", TeacherID: "t1", RoomID: "r1", TimeSlotID: "slot1", Day: "Monday"},
		{TenantID: "u1", ClassID: "c1", SubjectID: "s2", TeacherID: "t2", RoomID: "r2", TimeSlotID: "slot2", Day: "Monday"},
	}
	require.NoError(t, repo.BulkCreateTx(ctx, tx, entries))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "class_id", "subject_id", "teacher_id", "room_id", "time_slot_id", "day", "created_at",
		"subject_name", "subject_code", "teacher_name", "class_name", "room_name", "room_number", "start_time", "end_time", "slot_number"}).
		AddRow("e1", "u1", "c1", "s1", "t1", "r1", "slot1", "Monday", time.Now(),
			"Math", "MATH101", "Dr. Smith", "CS-A", "Main Hall", "101", "09:00", "10:00", 1)
	mock.ExpectQuery("FROM timetable_entries te").
		WithArgs("u1", "c1").
		WillReturnRows(rows)

	entries, err := repo.ListByClass(context.Background(), "u1", "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Math", entries[0].SubjectName)
	assert.Equal(t, 1, entries[0].SlotNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
