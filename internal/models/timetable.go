package models

import "time"

// TimetableEntry is one scheduled occurrence of a subject, taught by a
// teacher, in a room, during a class's time slot. Day is a denormalized copy
// of the slot's weekday so conflict queries avoid a join.
type TimetableEntry struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"-"`
	ClassID    string    `db:"class_id" json:"class_id"`
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	TimeSlotID string    `db:"time_slot_id" json:"time_slot_id"`
	Day        string    `db:"day" json:"day"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimetableEntryDetail joins an entry with its referenced master data for
// grid rendering.
type TimetableEntryDetail struct {
	TimetableEntry
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	RoomName    string `db:"room_name" json:"room_name"`
	RoomNumber  string `db:"room_number" json:"room_number"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	SlotNumber  int    `db:"slot_number" json:"slot_number"`
}

// ConflictCheckRequest describes a proposed booking to validate. Teacher and
// room ids are optional; an absent id skips that check.
type ConflictCheckRequest struct {
	TeacherID  string `json:"teacher_id"`
	RoomID     string `json:"room_id"`
	TimeSlotID string `json:"time_slot_id" validate:"required"`
	Day        string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
}

// ConflictCheckResult aggregates human-readable conflict messages.
type ConflictCheckResult struct {
	Conflicts   []string `json:"conflicts"`
	HasConflict bool     `json:"has_conflict"`
}

// AvailableRoomsRequest asks for rooms free at a given slot and day.
type AvailableRoomsRequest struct {
	TimeSlotID string `json:"time_slot_id" validate:"required"`
	Day        string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
}

// GenerateRequest selects the class whose timetable should be regenerated.
type GenerateRequest struct {
	ClassID string `json:"class_id" validate:"required"`
}

// GenerateResult reports the outcome of a generation run.
type GenerateResult struct {
	ClassID    string           `json:"class_id"`
	EntryCount int              `json:"entry_count"`
	Entries    []TimetableEntry `json:"entries"`
}

// TimetableGrid arranges entries by day and slot number for presentation.
type TimetableGrid struct {
	Days  []string                                 `json:"days"`
	Slots []TimeSlot                               `json:"slots"`
	Cells map[string]map[int]*TimetableEntryDetail `json:"cells"`
}
