package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

const (
	assignmentsFoundMessage = "Assignments retrieved successfully"
	assignmentsEmptyMessage = "No assignments found for this course"
)

type assignmentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
}

type progressRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ProgressRecord, error)
	Upsert(ctx context.Context, courseID string, record models.ProgressRecord) error
}

// CreateAssignmentRequest captures fields for publishing an assignment.
type CreateAssignmentRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	Title        string `json:"title" validate:"required,notblank,max=200"`
	Description  string `json:"description"`
	FileNo       string `json:"fileno" validate:"max=60"`
	ResourceLink string `json:"resourcelink" validate:"omitempty,url"`
}

// RecordProgressRequest captures one student's standing in a course.
type RecordProgressRequest struct {
	RollNumber   string           `json:"studentRollNumber" validate:"required,notblank"`
	Name         string           `json:"studentName"`
	Department   string           `json:"studentDepartment"`
	Percentage   float64          `json:"progressPercentage" validate:"gte=0,lte=100"`
	AverageGrade models.FlexFloat `json:"averageGrade"`
}

// SubmissionService serves assignments and per-student progress.
type SubmissionService struct {
	assignments assignmentRepository
	progress    progressRepository
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(assignments assignmentRepository, progress progressRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{assignments: assignments, progress: progress, metrics: metrics, validator: validate, logger: logger}
}

// Assignments lists the assignments of a course wrapped with a status message.
func (s *SubmissionService) Assignments(ctx context.Context, courseID string) (*models.AssignmentList, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	done := s.metrics.timeQuery("assignments.list")
	items, err := s.assignments.ListByCourse(ctx, courseID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	list := &models.AssignmentList{Assignments: items, Message: assignmentsFoundMessage}
	if len(items) == 0 {
		list.Assignments = []models.Assignment{}
		list.Message = assignmentsEmptyMessage
	}
	return list, nil
}

// CreateAssignment publishes an assignment for a course.
func (s *SubmissionService) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*models.Assignment, error) {
	req.CourseID = strings.TrimSpace(req.CourseID)
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid assignment payload")
	}
	assignment := models.Assignment{
		CourseID:     req.CourseID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		FileNo:       req.FileNo,
		ResourceLink: req.ResourceLink,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.metrics.CountMutation("assignment", "create")
	return &assignment, nil
}

// Progress returns the student progress report for a course.
func (s *SubmissionService) Progress(ctx context.Context, courseID string) (*models.ProgressReport, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	done := s.metrics.timeQuery("progress.list")
	records, err := s.progress.ListByCourse(ctx, courseID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student progress")
	}
	if records == nil {
		records = []models.ProgressRecord{}
	}
	return &models.ProgressReport{Students: records}, nil
}

// RecordProgress creates or replaces a student's progress row.
func (s *SubmissionService) RecordProgress(ctx context.Context, courseID string, req RecordProgressRequest) (*models.ProgressRecord, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid progress payload")
	}
	record := models.ProgressRecord{
		RollNumber: strings.TrimSpace(req.RollNumber),
		Name:       req.Name,
		Department: req.Department,
		Percentage: req.Percentage,
		Grade:      req.AverageGrade,
	}
	if err := s.progress.Upsert(ctx, courseID, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record progress")
	}
	s.metrics.CountMutation("progress", "upsert")
	return &record, nil
}
