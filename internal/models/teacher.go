package models

import "time"

// Teacher represents a teaching staff member owned by a tenant.
type Teacher struct {
	ID              string    `db:"id" json:"id"`
	TenantID        string    `db:"tenant_id" json:"-"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	Department      string    `db:"department" json:"department"`
	Specialization  string    `db:"specialization" json:"specialization"`
	MaxHoursPerDay  int       `db:"max_hours_per_day" json:"max_hours_per_day"`
	MaxHoursPerWeek int       `db:"max_hours_per_week" json:"max_hours_per_week"`
	PreferredDays   string    `db:"preferred_days" json:"preferred_days"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherRequest is the create/update payload for teachers.
type TeacherRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	Specialization  string `json:"specialization"`
	MaxHoursPerDay  int    `json:"max_hours_per_day" validate:"omitempty,gt=0"`
	MaxHoursPerWeek int    `json:"max_hours_per_week" validate:"omitempty,gt=0"`
	PreferredDays   string `json:"preferred_days"`
}

// TeacherFilter captures filtering criteria for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
