package models

import "time"

// Room represents a physical room owned by a tenant. RoomNumber is unique
// within the tenant; RoomType is free-form (Classroom, Lab, Lecture Hall, ...).
type Room struct {
	ID              string    `db:"id" json:"id"`
	TenantID        string    `db:"tenant_id" json:"-"`
	Name            string    `db:"name" json:"name"`
	RoomNumber      string    `db:"room_number" json:"room_number"`
	Capacity        int       `db:"capacity" json:"capacity"`
	RoomType        string    `db:"room_type" json:"room_type"`
	HasProjector    bool      `db:"has_projector" json:"has_projector"`
	HasLabEquipment bool      `db:"has_lab_equipment" json:"has_lab_equipment"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// RoomRequest is the create/update payload for rooms.
type RoomRequest struct {
	Name            string `json:"name" validate:"required"`
	RoomNumber      string `json:"room_number" validate:"required"`
	Capacity        int    `json:"capacity" validate:"omitempty,gt=0"`
	RoomType        string `json:"room_type"`
	HasProjector    bool   `json:"has_projector"`
	HasLabEquipment bool   `json:"has_lab_equipment"`
}

// RoomFilter captures filtering criteria for listing rooms.
type RoomFilter struct {
	Search    string
	RoomType  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
