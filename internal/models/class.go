package models

import "time"

// Class represents a cohort/section owned by a tenant.
type Class struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Semester     string    `db:"semester" json:"semester"`
	Department   string    `db:"department" json:"department"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClassRequest is the create/update payload for classes.
type ClassRequest struct {
	Name         string `json:"name" validate:"required"`
	Semester     string `json:"semester"`
	Department   string `json:"department"`
	StudentCount int    `json:"student_count" validate:"omitempty,gt=0"`
}

// ClassFilter captures filtering criteria for listing classes.
type ClassFilter struct {
	Search    string
	Semester  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
