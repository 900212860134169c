package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// TimetableHandler wires timetable generation and views to HTTP routes.
type TimetableHandler struct {
	generator *service.GeneratorService
	timetable *service.TimetableService
	cache     *service.CacheService
	metrics   *service.MetricsService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(generator *service.GeneratorService, timetable *service.TimetableService, cache *service.CacheService, metrics *service.MetricsService) *TimetableHandler {
	return &TimetableHandler{generator: generator, timetable: timetable, cache: cache, metrics: metrics}
}

// Generate godoc
// @Summary Generate a class timetable
// @Description Replaces the class's timetable with a fresh round-robin allocation.
// @Tags Timetable
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.GenerateRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	tenantID := tenantFromContext(c)
	start := time.Now()
	result, err := h.generator.Generate(c.Request.Context(), tenantID, req)
	if h.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		h.metrics.ObserveGeneration(outcome, time.Since(start))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateTenant(c.Request.Context(), tenantID)
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GridByClass godoc
// @Summary View a class timetable as a grid
// @Tags Timetable
// @Security BearerAuth
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/class/{id} [get]
func (h *TimetableHandler) GridByClass(c *gin.Context) {
	grid, err := h.timetable.GridByClass(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// ListByTeacher godoc
// @Summary View a teacher's schedule across classes
// @Tags Timetable
// @Security BearerAuth
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/teacher/{id} [get]
func (h *TimetableHandler) ListByTeacher(c *gin.Context) {
	entries, err := h.timetable.ListByTeacher(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// DeleteEntry godoc
// @Summary Delete a single timetable entry
// @Tags Timetable
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/entries/{id} [delete]
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	tenantID := tenantFromContext(c)
	if err := h.timetable.DeleteEntry(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateTenant(c.Request.Context(), tenantID)
	}
	response.NoContent(c)
}
