package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	"github.com/noah-isme/course-portal/pkg/response"
)

type sectionService interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error)
	Create(ctx context.Context, draft models.SectionDraft) (*models.Section, error)
	Update(ctx context.Context, section models.Section) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
}

type contentService interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error)
	Create(ctx context.Context, draft models.ContentDraft) (*models.Content, error)
	Delete(ctx context.Context, id int64, actor *session.Identity) error
}

// SectionHandler handles section and content endpoints.
type SectionHandler struct {
	sections sectionService
	contents contentService
}

// NewSectionHandler constructs a section handler.
func NewSectionHandler(sections sectionService, contents contentService) *SectionHandler {
	return &SectionHandler{sections: sections, contents: contents}
}

// List godoc
// @Summary List sections of a course
// @Tags Sections
// @Produce json
// @Param id query int true "Course ID"
// @Success 200 {array} models.Section
// @Router /course/section/details [get]
func (h *SectionHandler) List(c *gin.Context) {
	courseID, err := parseID(c.Query("id"), "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	sections, err := h.sections.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sections)
}

// Create godoc
// @Summary Create section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body models.SectionDraft true "Section payload"
// @Success 201 {object} models.Section
// @Router /course/section/add [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var payload models.Section
	if err := bindJSON(c, &payload); err != nil {
		response.Error(c, err)
		return
	}
	section, err := h.sections.Create(c.Request.Context(), models.SectionDraft{
		Title:       payload.Title,
		Description: payload.Description,
		Course:      payload.Course,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body models.Section true "Section payload"
// @Success 200 {object} models.Section
// @Router /course/section/update [put]
func (h *SectionHandler) Update(c *gin.Context) {
	var payload models.Section
	if err := bindJSON(c, &payload); err != nil {
		response.Error(c, err)
		return
	}
	section, err := h.sections.Update(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, section)
}

// Delete godoc
// @Summary Delete section
// @Tags Sections
// @Accept plain
// @Produce json
// @Param id body string true "Section ID"
// @Success 200 {object} map[string]string
// @Router /course/section/delete [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, err := readIDBody(c, "section id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.sections.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Section deleted successfully"})
}

// Contents godoc
// @Summary List contents of a section
// @Tags Contents
// @Produce json
// @Param id query int true "Section ID"
// @Success 200 {array} models.Content
// @Router /course/section/content/details [get]
func (h *SectionHandler) Contents(c *gin.Context) {
	sectionID, err := parseID(c.Query("id"), "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	contents, err := h.contents.ListBySection(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contents)
}

// AddContent godoc
// @Summary Attach content to a section
// @Tags Contents
// @Accept json
// @Produce json
// @Param payload body models.ContentDraft true "Content payload"
// @Success 201 {object} models.Content
// @Router /course/section/content/add [post]
func (h *SectionHandler) AddContent(c *gin.Context) {
	var payload models.Content
	if err := bindJSON(c, &payload); err != nil {
		response.Error(c, err)
		return
	}
	content, err := h.contents.Create(c.Request.Context(), models.ContentDraft{
		Type:    payload.Type,
		URL:     payload.URL,
		Section: payload.Section,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, content)
}

// DeleteContent godoc
// @Summary Delete content
// @Tags Contents
// @Accept plain
// @Produce json
// @Param id body string true "Content ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.Error
// @Router /course/section/content/delete [delete]
func (h *SectionHandler) DeleteContent(c *gin.Context) {
	id, err := readIDBody(c, "content id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.contents.Delete(c.Request.Context(), id, identityFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Content deleted successfully"})
}
