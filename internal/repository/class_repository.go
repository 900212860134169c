package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ClassRepository manages persistence for classes (student groups).
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, tenant_id, name, semester, department, student_count, created_at, updated_at"

// List returns the tenant's classes matching filters along with total count.
func (r *ClassRepository) List(ctx context.Context, tenantID string, filter models.ClassFilter) ([]models.Class, int, error) {
	base := "FROM classes WHERE tenant_id = $1"
	args := []interface{}{tenantID}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		base += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(department) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, search)
	}
	if filter.Semester != "" {
		base += fmt.Sprintf(" AND semester = $%d", len(args)+1)
		args = append(args, filter.Semester)
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "semester": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", classColumns, base, sortBy, order, size, offset)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return classes, total, nil
}

// ListAll returns every class of a tenant in insertion order.
func (r *ClassRepository) ListAll(ctx context.Context, tenantID string) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE tenant_id = $1 ORDER BY created_at ASC, id ASC", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, tenantID); err != nil {
		return nil, fmt.Errorf("list all classes: %w", err)
	}
	return classes, nil
}

// ListRecent returns the newest classes of a tenant for the dashboard.
func (r *ClassRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]models.Class, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf("SELECT %s FROM classes WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT %d", classColumns, limit)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, tenantID); err != nil {
		return nil, fmt.Errorf("list recent classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a tenant's class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1 AND tenant_id = $2", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, tenantID); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, tenant_id, name, semester, department, student_count, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :semester, :department, :student_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class record.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, semester = :semester, department = :department, student_count = :student_count, updated_at = :updated_at WHERE id = :id AND tenant_id = :tenant_id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a tenant's class by id.
func (r *ClassRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
