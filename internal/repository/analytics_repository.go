package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// AnalyticsRepository runs the aggregate queries behind the analytics and
// dashboard endpoints.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TeacherWorkload returns per-teacher weekly load, busiest first.
func (r *AnalyticsRepository) TeacherWorkload(ctx context.Context, tenantID string) ([]models.TeacherWorkload, error) {
	const query = `SELECT t.id AS teacher_id, t.name AS teacher_name,
		COUNT(te.id) AS total_classes,
		COUNT(DISTINCT te.day) AS days_teaching
		FROM teachers t
		LEFT JOIN timetable_entries te ON te.teacher_id = t.id
		WHERE t.tenant_id = $1
		GROUP BY t.id, t.name
		ORDER BY total_classes DESC, t.name ASC`
	var rows []models.TeacherWorkload
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("teacher workload: %w", err)
	}
	return rows, nil
}

// RoomUtilization returns per-room booking counts, most used first.
func (r *AnalyticsRepository) RoomUtilization(ctx context.Context, tenantID string) ([]models.RoomUtilization, error) {
	const query = `SELECT ro.id AS room_id, ro.room_number AS room_number, ro.name AS room_name,
		COUNT(te.id) AS times_used
		FROM rooms ro
		LEFT JOIN timetable_entries te ON te.room_id = ro.id
		WHERE ro.tenant_id = $1
		GROUP BY ro.id, ro.room_number, ro.name
		ORDER BY times_used DESC, ro.room_number ASC`
	var rows []models.RoomUtilization
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("room utilization: %w", err)
	}
	return rows, nil
}

// SubjectDistribution returns how often each subject appears on timetables.
func (r *AnalyticsRepository) SubjectDistribution(ctx context.Context, tenantID string) ([]models.SubjectDistribution, error) {
	const query = `SELECT s.id AS subject_id, s.name AS subject_name, s.code AS subject_code,
		COUNT(te.id) AS frequency
		FROM subjects s
		LEFT JOIN timetable_entries te ON te.subject_id = s.id
		WHERE s.tenant_id = $1
		GROUP BY s.id, s.name, s.code
		ORDER BY frequency DESC, s.name ASC`
	var rows []models.SubjectDistribution
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("subject distribution: %w", err)
	}
	return rows, nil
}

// DayDistribution returns scheduled entry counts per weekday in grid order.
func (r *AnalyticsRepository) DayDistribution(ctx context.Context, tenantID string) ([]models.DayDistribution, error) {
	const query = `SELECT day, COUNT(*) AS entries
		FROM timetable_entries
		WHERE tenant_id = $1
		GROUP BY day
		ORDER BY CASE day
			WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 ELSE 6 END`
	var rows []models.DayDistribution
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("day distribution: %w", err)
	}
	return rows, nil
}

// DashboardStats returns the entity counts shown on the dashboard.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context, tenantID string) (*models.DashboardStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM teachers WHERE tenant_id = $1) AS teachers,
		(SELECT COUNT(*) FROM subjects WHERE tenant_id = $1) AS subjects,
		(SELECT COUNT(*) FROM rooms WHERE tenant_id = $1) AS rooms,
		(SELECT COUNT(*) FROM classes WHERE tenant_id = $1) AS classes,
		(SELECT COUNT(*) FROM timetable_entries WHERE tenant_id = $1) AS entries`
	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query, tenantID); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
