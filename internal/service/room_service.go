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

type roomRepository interface {
	List(ctx context.Context, tenantID string, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Room, error)
	ExistsByNumber(ctx context.Context, tenantID, roomNumber, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, tenantID, id string) error
}

// RoomService manages room master data. Room numbers are unique per tenant.
type RoomService struct {
	repo      roomRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService wires room dependencies.
func NewRoomService(repo roomRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns rooms with pagination metadata.
func (s *RoomService) List(ctx context.Context, tenantID string, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, tenantID, filter)
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
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one room.
func (s *RoomService) Get(ctx context.Context, tenantID, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, err
	}
	return room, nil
}

// Create registers a new room after checking number uniqueness.
func (s *RoomService) Create(ctx context.Context, tenantID string, req models.RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	taken, err := s.repo.ExistsByNumber(ctx, tenantID, req.RoomNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "room number already in use")
	}

	room := &models.Room{
		TenantID:        tenantID,
		Name:            req.Name,
		RoomNumber:      req.RoomNumber,
		Capacity:        req.Capacity,
		RoomType:        req.RoomType,
		HasProjector:    req.HasProjector,
		HasLabEquipment: req.HasLabEquipment,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return room, nil
}

// Update modifies an existing room, keeping the number unique.
func (s *RoomService) Update(ctx context.Context, tenantID, id string, req models.RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsByNumber(ctx, tenantID, req.RoomNumber, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "room number already in use")
	}

	room.Name = req.Name
	room.RoomNumber = req.RoomNumber
	room.Capacity = req.Capacity
	room.RoomType = req.RoomType
	room.HasProjector = req.HasProjector
	room.HasLabEquipment = req.HasLabEquipment
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return room, nil
}

// Delete removes a room.
func (s *RoomService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *RoomService) invalidate(ctx context.Context, tenantID string) {
	if s.cache != nil {
		s.cache.InvalidateTenant(ctx, tenantID)
	}
}
