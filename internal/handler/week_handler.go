package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplan/lesson-planner-api/internal/service"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/response"
)

// WeekHandler exposes planning week endpoints.
type WeekHandler struct {
	weeks *service.WeekService
}

// NewWeekHandler constructs handler.
func NewWeekHandler(weeks *service.WeekService) *WeekHandler {
	return &WeekHandler{weeks: weeks}
}

// List godoc
// @Summary List planning weeks
// @Tags PlanningWeeks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planning-weeks [get]
func (h *WeekHandler) List(c *gin.Context) {
	weeks, err := h.weeks.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, nil)
}

// ListActive godoc
// @Summary List active planning weeks
// @Tags PlanningWeeks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planning-weeks/active [get]
func (h *WeekHandler) ListActive(c *gin.Context) {
	weeks, err := h.weeks.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, nil)
}

// Get godoc
// @Summary Get a planning week
// @Tags PlanningWeeks
// @Produce json
// @Param id path string true "Week ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planning-weeks/{id} [get]
func (h *WeekHandler) Get(c *gin.Context) {
	week, err := h.weeks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Create godoc
// @Summary Create a planning week
// @Tags PlanningWeeks
// @Accept json
// @Produce json
// @Param payload body service.CreateWeekRequest true "Week payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /planning-weeks [post]
func (h *WeekHandler) Create(c *gin.Context) {
	var req service.CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	week, err := h.weeks.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, week)
}

// ToggleActive godoc
// @Summary Toggle the active flag of a planning week
// @Tags PlanningWeeks
// @Produce json
// @Param id path string true "Week ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planning-weeks/{id}/toggle [patch]
func (h *WeekHandler) ToggleActive(c *gin.Context) {
	week, err := h.weeks.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Delete godoc
// @Summary Delete a planning week and its plans
// @Tags PlanningWeeks
// @Produce json
// @Param id path string true "Week ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planning-weeks/{id} [delete]
func (h *WeekHandler) Delete(c *gin.Context) {
	if err := h.weeks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
