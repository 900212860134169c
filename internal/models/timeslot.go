package models

import "time"

// Weekdays enumerates the teaching days in grid order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// IsWeekday reports whether day names one of the supported teaching days.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// TimeSlot is one (weekday, start, end, ordinal) unit of the tenant's weekly
// grid. Slots are tenant-global and shared across all classes.
type TimeSlot struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"-"`
	Day        string    `db:"day" json:"day"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	SlotNumber int       `db:"slot_number" json:"slot_number"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimeSlotRequest is the create payload for time slots.
type TimeSlotRequest struct {
	Day        string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	SlotNumber int    `json:"slot_number" validate:"required,gt=0"`
}
