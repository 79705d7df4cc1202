package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type sectionRepository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// SectionService handles course sections.
type SectionService struct {
	repo      sectionRepository
	courses   courseLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService creates a new section service.
func NewSectionService(repo sectionRepository, courses courseLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, courses: courses, metrics: metrics, validator: validate, logger: logger}
}

// ListByCourse returns the sections of a course. Unknown courses have none.
func (s *SectionService) ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error) {
	if courseID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	done := s.metrics.timeQuery("sections.list")
	sections, err := s.repo.ListByCourse(ctx, courseID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return sections, nil
}

// Create adds a section to an existing course.
func (s *SectionService) Create(ctx context.Context, draft models.SectionDraft) (*models.Section, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, invalidPayload(err, "invalid section payload")
	}
	if _, err := s.courses.FindByID(ctx, draft.Course.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	section := models.Section{
		Course:      draft.Course,
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
	}
	if err := s.repo.Create(ctx, &section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	s.metrics.CountMutation("section", "create")
	return &section, nil
}

// Update changes the title and description of a section.
func (s *SectionService) Update(ctx context.Context, section models.Section) (*models.Section, error) {
	if section.ID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section_id is required")
	}
	if err := s.validator.Var(section.Title, "required,notblank,max=200"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section title is required")
	}

	section.Title = strings.TrimSpace(section.Title)
	if err := s.repo.Update(ctx, &section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	s.metrics.CountMutation("section", "update")
	return &section, nil
}

// Delete removes a section and its contents.
func (s *SectionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	s.metrics.CountMutation("section", "delete")
	return nil
}

type contentRepository interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error)
	Create(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id int64) error
	InstructorOf(ctx context.Context, id int64) (string, error)
}

type sectionLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Section, error)
}

// ContentService handles the videos and documents attached to sections.
type ContentService struct {
	repo      contentRepository
	sections  sectionLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContentService creates a new content service.
func NewContentService(repo contentRepository, sections sectionLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, sections: sections, metrics: metrics, validator: validate, logger: logger}
}

// ListBySection returns the contents of a section.
func (s *ContentService) ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error) {
	if sectionID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section id is required")
	}
	done := s.metrics.timeQuery("contents.list")
	contents, err := s.repo.ListBySection(ctx, sectionID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contents")
	}
	if contents == nil {
		contents = []models.Content{}
	}
	return contents, nil
}

// Create attaches content to an existing section.
func (s *ContentService) Create(ctx context.Context, draft models.ContentDraft) (*models.Content, error) {
	draft.URL = strings.TrimSpace(draft.URL)
	if err := s.validator.Struct(draft); err != nil {
		return nil, invalidPayload(err, "invalid content payload")
	}
	if _, err := s.sections.FindByID(ctx, draft.Section.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	content := models.Content{Type: draft.Type, URL: draft.URL, Section: draft.Section}
	if err := s.repo.Create(ctx, &content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create content")
	}
	s.metrics.CountMutation("content", "create")
	return &content, nil
}

// Delete removes a content item. When actor is a teacher, they must be the
// course's instructor; a nil actor skips the ownership check.
func (s *ContentService) Delete(ctx context.Context, id int64, actor *session.Identity) error {
	if actor != nil && actor.Role == session.RoleTeacher {
		instructor, err := s.repo.InstructorOf(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "content not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content owner")
		}
		if !actor.CanDeleteContent(models.Course{InstructorName: instructor}) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the course instructor can delete its content")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete content")
	}
	s.metrics.CountMutation("content", "delete")
	s.logger.Info("content deleted", zap.Int64("content_id", id))
	return nil
}
