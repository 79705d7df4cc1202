package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/pkg/response"
)

type submissionService interface {
	Assignments(ctx context.Context, courseID string) (*models.AssignmentList, error)
	CreateAssignment(ctx context.Context, req service.CreateAssignmentRequest) (*models.Assignment, error)
	Progress(ctx context.Context, courseID string) (*models.ProgressReport, error)
	RecordProgress(ctx context.Context, courseID string, req service.RecordProgressRequest) (*models.ProgressRecord, error)
}

// SubmissionHandler serves assignments and student progress.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs a submission handler.
func NewSubmissionHandler(svc submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// Assignments godoc
// @Summary List assignments of a course
// @Tags Submissions
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {object} models.AssignmentList
// @Router /assignments/course [get]
func (h *SubmissionHandler) Assignments(c *gin.Context) {
	list, err := h.service.Assignments(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// CreateAssignment godoc
// @Summary Publish an assignment
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} models.Assignment
// @Router /assignments [post]
func (h *SubmissionHandler) CreateAssignment(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.service.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Progress godoc
// @Summary Student progress of a course
// @Tags Submissions
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.ProgressReport
// @Router /submissions/courses/{courseId}/student-progress [get]
func (h *SubmissionHandler) Progress(c *gin.Context) {
	report, err := h.service.Progress(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// RecordProgress godoc
// @Summary Record a student's progress
// @Tags Submissions
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.RecordProgressRequest true "Progress payload"
// @Success 200 {object} models.ProgressRecord
// @Router /submissions/courses/{courseId}/student-progress [put]
func (h *SubmissionHandler) RecordProgress(c *gin.Context) {
	var req service.RecordProgressRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.service.RecordProgress(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}
