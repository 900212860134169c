package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// RoomRepository manages persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = "id, tenant_id, name, room_number, capacity, room_type, has_projector, has_lab_equipment, created_at, updated_at"

// List returns the tenant's rooms matching filters along with total count.
func (r *RoomRepository) List(ctx context.Context, tenantID string, filter models.RoomFilter) ([]models.Room, int, error) {
	base := "FROM rooms WHERE tenant_id = $1"
	args := []interface{}{tenantID}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		base += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(room_number) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, search)
	}
	if filter.RoomType != "" {
		base += fmt.Sprintf(" AND room_type = $%d", len(args)+1)
		args = append(args, filter.RoomType)
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "room_number": true, "capacity": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "room_number"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", roomColumns, base, sortBy, order, size, offset)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}

	return rooms, total, nil
}

// ListAll returns every room of a tenant in insertion order.
func (r *RoomRepository) ListAll(ctx context.Context, tenantID string) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE tenant_id = $1 ORDER BY created_at ASC, id ASC", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, tenantID); err != nil {
		return nil, fmt.Errorf("list all rooms: %w", err)
	}
	return rooms, nil
}

// FindByID fetches a tenant's room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = $1 AND tenant_id = $2", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id, tenantID); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByNumber checks whether another room of the tenant carries the same
// room number.
func (r *RoomRepository) ExistsByNumber(ctx context.Context, tenantID, roomNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE tenant_id = $1 AND LOWER(room_number) = LOWER($2)"
	args := []interface{}{tenantID, roomNumber}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room number: %w", err)
	}
	return true, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, tenant_id, name, room_number, capacity, room_type, has_projector, has_lab_equipment, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :room_number, :capacity, :room_type, :has_projector, :has_lab_equipment, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies an existing room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET name = :name, room_number = :room_number, capacity = :capacity, room_type = :room_type, has_projector = :has_projector, has_lab_equipment = :has_lab_equipment, updated_at = :updated_at WHERE id = :id AND tenant_id = :tenant_id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a tenant's room by id.
func (r *RoomRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
