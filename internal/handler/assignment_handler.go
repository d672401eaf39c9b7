package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplan/lesson-planner-api/internal/service"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/response"
)

// AssignmentHandler exposes teacher-grade and teacher-subject assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// ListGrades godoc
// @Summary List a teacher's grade assignments
// @Tags Assignments
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/grades [get]
func (h *AssignmentHandler) ListGrades(c *gin.Context) {
	assignments, err := h.assignments.ListGrades(c.Request.Context(), c.Param("teacherId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// AssignGrade godoc
// @Summary Assign a teacher to a grade
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignTeacherGradeRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher-grades [post]
func (h *AssignmentHandler) AssignGrade(c *gin.Context) {
	var req service.AssignTeacherGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.assignments.AssignGrade(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"status": "assigned"})
}

// UnassignGrade godoc
// @Summary Remove a teacher-grade assignment
// @Tags Assignments
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param gradeId path string true "Grade ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher-grades/{teacherId}/{gradeId} [delete]
func (h *AssignmentHandler) UnassignGrade(c *gin.Context) {
	if err := h.assignments.UnassignGrade(c.Request.Context(), c.Param("teacherId"), c.Param("gradeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSubjects godoc
// @Summary List a teacher's subject assignments
// @Tags Assignments
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/subjects [get]
func (h *AssignmentHandler) ListSubjects(c *gin.Context) {
	assignments, err := h.assignments.ListSubjects(c.Request.Context(), c.Param("teacherId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// AssignSubject godoc
// @Summary Record a teacher's subject competency within a grade
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignTeacherSubjectRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher-subjects [post]
func (h *AssignmentHandler) AssignSubject(c *gin.Context) {
	var req service.AssignTeacherSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.assignments.AssignSubject(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"status": "assigned"})
}

// UnassignSubject godoc
// @Summary Remove a teacher-subject assignment
// @Tags Assignments
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param gradeId path string true "Grade ID"
// @Param subjectId path string true "Subject ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher-subjects/{teacherId}/{gradeId}/{subjectId} [delete]
func (h *AssignmentHandler) UnassignSubject(c *gin.Context) {
	if err := h.assignments.UnassignSubject(c.Request.Context(), c.Param("teacherId"), c.Param("gradeId"), c.Param("subjectId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
