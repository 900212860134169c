package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// ConflictHandler wires the conflict checker to HTTP routes.
type ConflictHandler struct {
	conflicts *service.ConflictService
	metrics   *service.MetricsService
}

// NewConflictHandler constructs a new ConflictHandler.
func NewConflictHandler(conflicts *service.ConflictService, metrics *service.MetricsService) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts, metrics: metrics}
}

// Check godoc
// @Summary Check a proposed booking for conflicts
// @Tags Timetable
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.ConflictCheckRequest true "Booking to validate"
// @Success 200 {object} response.Envelope
// @Router /timetable/check-conflicts [post]
func (h *ConflictHandler) Check(c *gin.Context) {
	var req models.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveConflictCheck()
	}
	result, err := h.conflicts.Check(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AvailableRooms godoc
// @Summary List rooms free at a slot and day
// @Tags Timetable
// @Security BearerAuth
// @Produce json
// @Param time_slot_id query string true "Time slot ID"
// @Param day query string true "Weekday"
// @Success 200 {object} response.Envelope
// @Router /timetable/available-rooms [get]
func (h *ConflictHandler) AvailableRooms(c *gin.Context) {
	req := models.AvailableRoomsRequest{
		TimeSlotID: c.Query("time_slot_id"),
		Day:        c.Query("day"),
	}
	rooms, err := h.conflicts.AvailableRooms(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}
