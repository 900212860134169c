package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimetableRepository manages persistence for timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const timetableDetailSelect = `SELECT te.id, te.tenant_id, te.class_id, te.subject_id, te.teacher_id, te.room_id, te.time_slot_id, te.day, te.created_at,
	s.name AS subject_name, s.code AS subject_code,
	t.name AS teacher_name,
	c.name AS class_name,
	r.name AS room_name, r.room_number AS room_number,
	ts.start_time AS start_time, ts.end_time AS end_time, ts.slot_number AS slot_number
	FROM timetable_entries te
	JOIN subjects s ON s.id = te.subject_id
	JOIN teachers t ON t.id = te.teacher_id
	JOIN classes c ON c.id = te.class_id
	JOIN rooms r ON r.id = te.room_id
	JOIN time_slots ts ON ts.id = te.time_slot_id`

// ListByClass returns a class's entries joined with master data, ordered for
// grid rendering.
func (r *TimetableRepository) ListByClass(ctx context.Context, tenantID, classID string) ([]models.TimetableEntryDetail, error) {
	query := timetableDetailSelect + `
	WHERE te.tenant_id = $1 AND te.class_id = $2
	ORDER BY CASE te.day
		WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
		WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 ELSE 6 END, ts.slot_number ASC`
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, tenantID, classID); err != nil {
		return nil, fmt.Errorf("list timetable by class: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns a teacher's entries joined with master data.
func (r *TimetableRepository) ListByTeacher(ctx context.Context, tenantID, teacherID string) ([]models.TimetableEntryDetail, error) {
	query := timetableDetailSelect + `
	WHERE te.tenant_id = $1 AND te.teacher_id = $2
	ORDER BY CASE te.day
		WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
		WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 ELSE 6 END, ts.slot_number ASC`
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, tenantID, teacherID); err != nil {
		return nil, fmt.Errorf("list timetable by teacher: %w", err)
	}
	return entries, nil
}

// FindByID fetches one entry of a tenant.
func (r *TimetableRepository) FindByID(ctx context.Context, tenantID, id string) (*models.TimetableEntry, error) {
	const query = `SELECT id, tenant_id, class_id, subject_id, teacher_id, room_id, time_slot_id, day, created_at
		FROM timetable_entries WHERE id = $1 AND tenant_id = $2`
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id, tenantID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteByClassTx removes all entries of a class inside the given transaction.
// Generation replaces a class's schedule atomically, so the delete and the
// subsequent inserts must share one transaction.
func (r *TimetableRepository) DeleteByClassTx(ctx context.Context, tx *sqlx.Tx, tenantID, classID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_entries WHERE tenant_id = $1 AND class_id = $2`, tenantID, classID); err != nil {
		return fmt.Errorf("delete timetable by class: %w", err)
	}
	return nil
}

// BulkCreateTx inserts generated entries inside the given transaction.
func (r *TimetableRepository) BulkCreateTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error {
	const query = `INSERT INTO timetable_entries (id, tenant_id, class_id, subject_id, teacher_id, room_id, time_slot_id, day, created_at)
		VALUES (:id, :tenant_id, :class_id, :subject_id, :teacher_id, :room_id, :time_slot_id, :day, :created_at)`
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}

// Create inserts a single manually placed entry.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timetable_entries (id, tenant_id, class_id, subject_id, teacher_id, room_id, time_slot_id, day, created_at)
		VALUES (:id, :tenant_id, :class_id, :subject_id, :teacher_id, :room_id, :time_slot_id, :day, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// Delete removes one entry of a tenant.
func (r *TimetableRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return nil
}

// CountByTeacherAt counts bookings of a teacher at a given slot and day.
func (r *TimetableRepository) CountByTeacherAt(ctx context.Context, tenantID, teacherID, timeSlotID, day string) (int, error) {
	const query = `SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1 AND teacher_id = $2 AND time_slot_id = $3 AND day = $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID, teacherID, timeSlotID, day); err != nil {
		return 0, fmt.Errorf("count teacher bookings: %w", err)
	}
	return count, nil
}

// CountByRoomAt counts bookings of a room at a given slot and day.
func (r *TimetableRepository) CountByRoomAt(ctx context.Context, tenantID, roomID, timeSlotID, day string) (int, error) {
	const query = `SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1 AND room_id = $2 AND time_slot_id = $3 AND day = $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID, roomID, timeSlotID, day); err != nil {
		return 0, fmt.Errorf("count room bookings: %w", err)
	}
	return count, nil
}

// AvailableRooms returns the tenant's rooms not booked at the given slot and
// day, computed as the complement of the occupied set.
func (r *TimetableRepository) AvailableRooms(ctx context.Context, tenantID, timeSlotID, day string) ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE tenant_id = $1 AND id NOT IN (
		SELECT room_id FROM timetable_entries WHERE tenant_id = $1 AND time_slot_id = $2 AND day = $3
	) ORDER BY room_number ASC`, roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, tenantID, timeSlotID, day); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

// CountByClass counts a class's current entries.
func (r *TimetableRepository) CountByClass(ctx context.Context, tenantID, classID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1 AND class_id = $2`, tenantID, classID); err != nil {
		return 0, fmt.Errorf("count timetable by class: %w", err)
	}
	return count, nil
}
