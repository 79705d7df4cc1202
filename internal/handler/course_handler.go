package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	"github.com/noah-isme/course-portal/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Create(ctx context.Context, draft models.CourseDraft, actor *session.Identity) (*models.Course, error)
	Update(ctx context.Context, course models.Course) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler handles course endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /course/details [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CourseDraft true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} errors.Error
// @Router /course/add [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var draft models.CourseDraft
	if err := bindJSON(c, &draft); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Create(c.Request.Context(), draft, identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.Course true "Full course payload"
// @Success 200 {object} models.Course
// @Failure 404 {object} errors.Error
// @Router /course/update [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var course models.Course
	if err := bindJSON(c, &course); err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), course)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param course_id query int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.Error
// @Router /course/delete [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Query("course_id"), "course_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Course deleted successfully"})
}
