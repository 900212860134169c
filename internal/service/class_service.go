package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, tenantID string, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ClassService manages class master data.
type ClassService struct {
	repo      classRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService wires class dependencies.
func NewClassService(repo classRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns classes with pagination metadata.
func (s *ClassService) List(ctx context.Context, tenantID string, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return classes, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one class.
func (s *ClassService) Get(ctx context.Context, tenantID, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, err
	}
	return class, nil
}

// Create registers a new class for the tenant.
func (s *ClassService) Create(ctx context.Context, tenantID string, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		TenantID:     tenantID,
		Name:         req.Name,
		Semester:     req.Semester,
		Department:   req.Department,
		StudentCount: req.StudentCount,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, tenantID, id string, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	class.Name = req.Name
	class.Semester = req.Semester
	class.Department = req.Department
	class.StudentCount = req.StudentCount
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *ClassService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		s.cache.InvalidateTenant(ctx, tenantID)
	}
}
