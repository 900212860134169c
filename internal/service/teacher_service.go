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

type teacherRepository interface {
	List(ctx context.Context, tenantID string, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, tenantID, id string) error
}

// cacheInvalidator drops derived cache entries after master data changes.
type cacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID string)
}

// TeacherService manages teacher master data.
type TeacherService struct {
	repo      teacherRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService wires teacher dependencies.
func NewTeacherService(repo teacherRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns teachers with pagination metadata.
func (s *TeacherService) List(ctx context.Context, tenantID string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, tenantID, filter)
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
	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one teacher.
func (s *TeacherService) Get(ctx context.Context, tenantID, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, err
	}
	return teacher, nil
}

// Create registers a new teacher for the tenant.
func (s *TeacherService) Create(ctx context.Context, tenantID string, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := &models.Teacher{
		TenantID:        tenantID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		Specialization:  req.Specialization,
		MaxHoursPerDay:  req.MaxHoursPerDay,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		PreferredDays:   req.PreferredDays,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return teacher, nil
}

// Update modifies an existing teacher.
func (s *TeacherService) Update(ctx context.Context, tenantID, id string, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	teacher.Name = req.Name
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Department = req.Department
	teacher.Specialization = req.Specialization
	teacher.MaxHoursPerDay = req.MaxHoursPerDay
	teacher.MaxHoursPerWeek = req.MaxHoursPerWeek
	teacher.PreferredDays = req.PreferredDays
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return teacher, nil
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *TeacherService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		s.cache.InvalidateTenant(ctx, tenantID)
	}
}
