package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplan/lesson-planner-api/internal/models"
	"github.com/eduplan/lesson-planner-api/internal/service"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/response"
)

// PlanHandler exposes weekly and daily plan endpoints.
type PlanHandler struct {
	plans   *service.PlanService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewPlanHandler constructs handler.
func NewPlanHandler(plans *service.PlanService, exports *service.ExportService, metrics *service.MetricsService) *PlanHandler {
	return &PlanHandler{plans: plans, exports: exports, metrics: metrics}
}

// ListWeekly godoc
// @Summary List weekly plans
// @Tags Plans
// @Produce json
// @Param teacherId query string false "Filter by teacher"
// @Param gradeId query string false "Filter by grade"
// @Param weekId query string false "Filter by week"
// @Success 200 {object} response.Envelope
// @Router /weekly-plans [get]
func (h *PlanHandler) ListWeekly(c *gin.Context) {
	filter := models.WeeklyPlanFilter{
		TeacherID: c.Query("teacherId"),
		GradeID:   c.Query("gradeId"),
		WeekID:    c.Query("weekId"),
	}
	plans, err := h.plans.ListWeekly(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// GetWeekly godoc
// @Summary Get a weekly plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id} [get]
func (h *PlanHandler) GetWeekly(c *gin.Context) {
	plan, err := h.plans.GetWeekly(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// CreateWeekly godoc
// @Summary Open a weekly plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body service.CreateWeeklyPlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /weekly-plans [post]
func (h *PlanHandler) CreateWeekly(c *gin.Context) {
	var req service.CreateWeeklyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.CreateWeekly(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// UpdateNotes godoc
// @Summary Update the notes of a weekly plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body service.UpdatePlanNotesRequest true "Notes payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id}/notes [patch]
func (h *PlanHandler) UpdateNotes(c *gin.Context) {
	var req service.UpdatePlanNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.UpdateNotes(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// DeleteWeekly godoc
// @Summary Delete a weekly plan and its daily plans
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id} [delete]
func (h *PlanHandler) DeleteWeekly(c *gin.Context) {
	if err := h.plans.DeleteWeekly(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Complete godoc
// @Summary Get the complete joined view of a weekly plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id}/complete [get]
func (h *PlanHandler) Complete(c *gin.Context) {
	complete, err := h.plans.Complete(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complete, nil)
}

// Export godoc
// @Summary Export a weekly plan as PDF or CSV
// @Tags Plans
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Plan ID"
// @Param format query string true "pdf or csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id}/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "pdf"))
	result, err := h.exports.ExportWeeklyPlan(c.Request.Context(), c.Param("id"), format, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordExport(string(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// ListDaily godoc
// @Summary List the daily plans of a weekly plan
// @Tags Plans
// @Produce json
// @Param id path string true "Weekly plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weekly-plans/{id}/daily-plans [get]
func (h *PlanHandler) ListDaily(c *gin.Context) {
	plans, err := h.plans.ListDaily(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// CreateDaily godoc
// @Summary Create a daily plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body service.DailyPlanRequest true "Daily plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /daily-plans [post]
func (h *PlanHandler) CreateDaily(c *gin.Context) {
	var req service.DailyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.CreateDaily(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// UpdateDaily godoc
// @Summary Update a daily plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Daily plan ID"
// @Param payload body service.DailyPlanRequest true "Daily plan payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /daily-plans/{id} [put]
func (h *PlanHandler) UpdateDaily(c *gin.Context) {
	var req service.DailyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.UpdateDaily(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// DeleteDaily godoc
// @Summary Delete a daily plan
// @Tags Plans
// @Produce json
// @Param id path string true "Daily plan ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daily-plans/{id} [delete]
func (h *PlanHandler) DeleteDaily(c *gin.Context) {
	if err := h.plans.DeleteDaily(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
