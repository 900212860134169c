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

type timeSlotRepository interface {
	ListAll(ctx context.Context, tenantID string) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, tenantID, id string) error
}

// TimeSlotService manages the tenant's weekly slot grid.
type TimeSlotService struct {
	repo      timeSlotRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService wires time slot dependencies.
func NewTimeSlotService(repo timeSlotRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all slots in day and slot number order.
func (s *TimeSlotService) List(ctx context.Context, tenantID string) ([]models.TimeSlot, error) {
	return s.repo.ListAll(ctx, tenantID)
}

// Create adds a slot to the grid.
func (s *TimeSlotService) Create(ctx context.Context, tenantID string, req models.TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	slot := &models.TimeSlot{
		TenantID:   tenantID,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SlotNumber: req.SlotNumber,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return slot, nil
}

// Delete removes a slot from the grid.
func (s *TimeSlotService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *TimeSlotService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		s.cache.InvalidateTenant(ctx, tenantID)
	}
}
