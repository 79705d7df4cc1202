package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

const (
	courseListCacheKey = "courses:list"
	courseCachePattern = "courses:*"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// cacheRefresher schedules a background refill of a cache key.
type cacheRefresher interface {
	Enqueue(key string) error
}

// CourseService handles course workflows of the course store.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	refresher cacheRefresher
}

// NewCourseService creates a new course service. cache and metrics may be nil.
func NewCourseService(repo courseRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every course, served from cache when possible.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if s.cache.Get(ctx, courseListCacheKey, &cached) {
		return cached, nil
	}

	done := s.metrics.timeQuery("courses.list")
	courses, err := s.repo.List(ctx)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	s.cache.Set(ctx, courseListCacheKey, courses, 0)
	return courses, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course. A blank instructor defaults to the actor's name.
func (s *CourseService) Create(ctx context.Context, draft models.CourseDraft, actor *session.Identity) (*models.Course, error) {
	if strings.TrimSpace(draft.InstructorName) == "" && actor != nil {
		draft.InstructorName = actor.Name
	}
	if err := s.validator.Struct(draft); err != nil {
		return nil, invalidPayload(err, "invalid course payload")
	}

	course := draft.Apply(models.Course{})
	if err := s.repo.Create(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.afterMutation(ctx, "create")
	s.logger.Info("course created", zap.Int64("course_id", course.ID), zap.String("title", course.Title))
	return &course, nil
}

// Update replaces the writable fields of an existing course.
func (s *CourseService) Update(ctx context.Context, course models.Course) (*models.Course, error) {
	if course.ID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	if err := s.validator.Struct(course); err != nil {
		return nil, invalidPayload(err, "invalid course payload")
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.afterMutation(ctx, "update")
	return &course, nil
}

// Delete removes a course along with its sections and contents.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.afterMutation(ctx, "delete")
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}

// WithRefresher makes mutations refill the course list cache in the background.
func (s *CourseService) WithRefresher(r cacheRefresher) *CourseService {
	s.refresher = r
	return s
}

// Warm reloads the cached entry named by key from the database.
func (s *CourseService) Warm(ctx context.Context, key string) error {
	if key != courseListCacheKey {
		return fmt.Errorf("unknown course cache key %q", key)
	}
	if !s.cache.Enabled() {
		return nil
	}
	done := s.metrics.timeQuery("courses.warm")
	courses, err := s.repo.List(ctx)
	done()
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	s.cache.Set(ctx, key, courses, 0)
	return nil
}

func (s *CourseService) afterMutation(ctx context.Context, action string) {
	s.cache.Invalidate(ctx, courseCachePattern)
	s.metrics.CountMutation("course", action)
	if s.refresher == nil || !s.cache.Enabled() {
		return
	}
	if err := s.refresher.Enqueue(courseListCacheKey); err != nil {
		s.logger.Warn("schedule course cache refill", zap.Error(err))
	}
}

// invalidPayload wraps a validation failure with a message naming the first bad field.
func invalidPayload(err error, message string) error {
	if detail := models.DescribeValidation(err); detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
