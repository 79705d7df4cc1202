// Package portal holds the client-side model of the course portal: the
// catalogue, the course detail view, and the assignment and progress views.
// Views keep only state the course store has confirmed.
package portal

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/localstore"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/storage"
)

// DefaultPageSize is the catalogue's "show more" step.
const DefaultPageSize = 8

// ErrSectionTitleRequired rejects a section without a title before any request.
var ErrSectionTitleRequired = appErrors.Clone(appErrors.ErrValidation, "section title is required")

// RemoteStore is the subset of the course store client the views use.
type RemoteStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, draft models.CourseDraft) (models.Course, error)
	UpdateCourse(ctx context.Context, course models.Course) (models.Course, error)
	DeleteCourse(ctx context.Context, courseID int64) error

	ListSections(ctx context.Context, courseID int64) ([]models.Section, error)
	CreateSection(ctx context.Context, draft models.SectionDraft) (models.Section, error)
	UpdateSection(ctx context.Context, section models.Section) (models.Section, error)
	DeleteSection(ctx context.Context, sectionID int64) error

	ListContents(ctx context.Context, sectionID int64) ([]models.Content, error)
	CreateContent(ctx context.Context, draft models.ContentDraft) (models.Content, error)
	DeleteContent(ctx context.Context, contentID int64) error

	ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	StudentProgress(ctx context.Context, courseID string) ([]models.ProgressRecord, error)
}

// Confirmer asks the user to approve a destructive or publishing action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Options carries the collaborators shared by every view.
type Options struct {
	Confirm  Confirmer
	Flags    localstore.Store
	Exports  *storage.LocalStorage
	Validate *validator.Validate
	Logger   *zap.Logger
	PageSize int
}

// Portal creates views bound to one identity.
type Portal struct {
	store    RemoteStore
	identity session.Identity
	confirm  Confirmer
	flags    localstore.Store
	exports  *storage.LocalStorage
	validate *validator.Validate
	logger   *zap.Logger
	pageSize int
}

// New builds a Portal for identity.
func New(store RemoteStore, identity session.Identity, opts Options) *Portal {
	if opts.Confirm == nil {
		opts.Confirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	}
	if opts.Flags == nil {
		opts.Flags = localstore.NewMemory()
	}
	if opts.Validate == nil {
		opts.Validate = models.NewValidator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Portal{
		store:    store,
		identity: identity,
		confirm:  opts.Confirm,
		flags:    opts.Flags,
		exports:  opts.Exports,
		validate: opts.Validate,
		logger:   opts.Logger.With(zap.String("role", string(identity.Role)), zap.String("actor", identity.Name)),
		pageSize: opts.PageSize,
	}
}

// Identity returns the actor the portal acts for.
func (p *Portal) Identity() session.Identity {
	return p.identity
}

// Catalog returns a new, unloaded catalogue view.
func (p *Portal) Catalog() *Catalog {
	return newCatalog(p)
}

// Assignments returns the assignment view of a course.
func (p *Portal) Assignments(courseID string) *Assignments {
	return newAssignments(p, courseID)
}

// Progress returns the progress report view of a course.
func (p *Portal) Progress(courseID string) *Progress {
	return newProgress(p, courseID)
}

func (p *Portal) forbidden(action string) error {
	return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s requires a teacher or admin role", action))
}

func (p *Portal) validationError(err error, message string) error {
	if detail := models.DescribeValidation(err); detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// ask runs the confirmer; a refusal is ErrCancelled.
func (p *Portal) ask(ctx context.Context, prompt string) error {
	ok, err := p.confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrCancelled, "")
	}
	return nil
}

// fail logs a failed remote operation and returns err unchanged.
func (p *Portal) fail(op string, err error, fields ...zap.Field) error {
	p.logger.Warn(op+" failed", append(fields, zap.Error(err))...)
	return err
}
