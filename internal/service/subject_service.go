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

type subjectRepository interface {
	List(ctx context.Context, tenantID string, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, tenantID, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, tenantID, id string) error
}

// SubjectService manages subject master data. Subject codes are unique per
// tenant.
type SubjectService struct {
	repo      subjectRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService wires subject dependencies.
func NewSubjectService(repo subjectRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, tenantID string, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, tenantID, filter)
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
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one subject.
func (s *SubjectService) Get(ctx context.Context, tenantID, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, err
	}
	return subject, nil
}

// Create registers a new subject after checking code uniqueness.
func (s *SubjectService) Create(ctx context.Context, tenantID string, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	taken, err := s.repo.ExistsByCode(ctx, tenantID, req.Code, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "subject code already in use")
	}

	kind := req.Kind
	if kind == "" {
		kind = models.SubjectTheory
	}
	subject := &models.Subject{
		TenantID:     tenantID,
		Name:         req.Name,
		Code:         req.Code,
		Department:   req.Department,
		Credits:      req.Credits,
		HoursPerWeek: req.HoursPerWeek,
		Kind:         kind,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return subject, nil
}

// Update modifies an existing subject, keeping the code unique.
func (s *SubjectService) Update(ctx context.Context, tenantID, id string, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsByCode(ctx, tenantID, req.Code, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "subject code already in use")
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Department = req.Department
	subject.Credits = req.Credits
	subject.HoursPerWeek = req.HoursPerWeek
	if req.Kind != "" {
		subject.Kind = req.Kind
	}
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return subject, nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *SubjectService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		s.cache.InvalidateTenant(ctx, tenantID)
	}
}
