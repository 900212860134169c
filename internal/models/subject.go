package models

import "time"

// SubjectKind distinguishes theory subjects from practicals; the bootstrap
// seeder uses it to choose matching room types.
type SubjectKind string

const (
	SubjectTheory    SubjectKind = "Theory"
	SubjectPractical SubjectKind = "Practical"
)

// Subject represents a course unit owned by a tenant. Code is unique within
// the tenant.
type Subject struct {
	ID           string      `db:"id" json:"id"`
	TenantID     string      `db:"tenant_id" json:"-"`
	Name         string      `db:"name" json:"name"`
	Code         string      `db:"code" json:"code"`
	Department   string      `db:"department" json:"department"`
	Credits      int         `db:"credits" json:"credits"`
	HoursPerWeek int         `db:"hours_per_week" json:"hours_per_week"`
	Kind         SubjectKind `db:"kind" json:"kind"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// SubjectRequest is the create/update payload for subjects.
type SubjectRequest struct {
	Name         string      `json:"name" validate:"required"`
	Code         string      `json:"code" validate:"required"`
	Department   string      `json:"department"`
	Credits      int         `json:"credits" validate:"omitempty,gt=0"`
	HoursPerWeek int         `json:"hours_per_week" validate:"omitempty,gt=0"`
	Kind         SubjectKind `json:"kind" validate:"omitempty,oneof=Theory Practical"`
}

// SubjectFilter captures filtering criteria for listing subjects.
type SubjectFilter struct {
	Search    string
	Kind      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
