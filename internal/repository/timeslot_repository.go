package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimeSlotRepository manages persistence for the weekly slot grid.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

const timeSlotColumns = "id, tenant_id, day, start_time, end_time, slot_number, created_at"

// ListAll returns every slot of a tenant ordered by day then slot number.
func (r *TimeSlotRepository) ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_slots WHERE tenant_id = $1
		ORDER BY CASE day
			WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 ELSE 6 END, slot_number ASC`, timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, tenantID); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// ListByDay returns a tenant's slots for one weekday ordered by slot number.
// The generator walks this order when filling a day.
func (r *TimeSlotRepository) ListByDay(ctx context.Context, tenantID, day string) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE tenant_id = $1 AND day = $2 ORDER BY slot_number ASC", timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, tenantID, day); err != nil {
		return nil, fmt.Errorf("list time slots by day: %w", err)
	}
	return slots, nil
}

// FindByID fetches a tenant's time slot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, tenantID, id string) (*models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE id = $1 AND tenant_id = $2", timeSlotColumns)
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id, tenantID); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new time slot record.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO time_slots (id, tenant_id, day, start_time, end_time, slot_number, created_at)
		VALUES (:id, :tenant_id, :day, :start_time, :end_time, :slot_number, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Delete removes a tenant's time slot by id.
func (r *TimeSlotRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	return nil
}
