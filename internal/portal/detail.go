package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

const contentFetchConcurrency = 4

// SectionEdit carries the editable fields of a section.
type SectionEdit struct {
	Title       string
	Description string
}

// CourseDetail is one course with its sections and their content. Sections are
// fetched when the view opens, when it switches to another course, and on
// Refresh; never as a side effect of its own updates.
type CourseDetail struct {
	p *Portal

	mu         sync.RWMutex
	course     models.Course
	sections   []models.Section
	contents   map[int64][]models.Content
	editingID  int64
	err        error
	sectionGen uint64
	edits      replayLog[models.Section]
	contentGen map[int64]uint64
}

// OpenCourse builds the detail view of course and loads its sections. The view
// is returned even when the load fails so the caller can Refresh.
func (p *Portal) OpenCourse(ctx context.Context, course models.Course) (*CourseDetail, error) {
	d := &CourseDetail{
		p:          p,
		course:     course,
		contents:   make(map[int64][]models.Content),
		contentGen: make(map[int64]uint64),
	}
	return d, d.Refresh(ctx)
}

// Refresh re-fetches the section list of the current course.
func (d *CourseDetail) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.sectionGen++
	gen := d.sectionGen
	since := d.edits.begin()
	courseID := d.course.ID
	d.mu.Unlock()

	sections, err := d.p.store.ListSections(ctx, courseID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.sectionGen || courseID != d.course.ID {
		d.edits.end()
		d.p.logger.Debug("discarding superseded section list", zap.Int64("course_id", courseID))
		return nil
	}
	if err != nil {
		d.edits.end()
		d.err = err
		return d.p.fail("load sections", err, zap.Int64("course_id", courseID))
	}
	sections = d.edits.finish(since, sections)
	d.sections = sections
	d.err = nil
	present := make(map[int64]struct{}, len(sections))
	for _, s := range sections {
		present[s.ID] = struct{}{}
	}
	for id := range d.contents {
		if _, ok := present[id]; !ok {
			delete(d.contents, id)
		}
	}
	if _, ok := present[d.editingID]; !ok {
		d.editingID = 0
	}
	return nil
}

// SwitchCourse points the view at another course. Switching to the course
// already shown does nothing.
func (d *CourseDetail) SwitchCourse(ctx context.Context, course models.Course) error {
	d.mu.Lock()
	if course.ID == d.course.ID {
		d.mu.Unlock()
		return nil
	}
	d.course = course
	d.sections = nil
	d.contents = make(map[int64][]models.Content)
	d.contentGen = make(map[int64]uint64)
	d.editingID = 0
	d.err = nil
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// Course returns the course as last confirmed by the store.
func (d *CourseDetail) Course() models.Course {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.course
}

// Sections returns the loaded sections in store order.
func (d *CourseDetail) Sections() []models.Section {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Section(nil), d.sections...)
}

// Err returns the failure of the last applied section load.
func (d *CourseDetail) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// CanEdit reports whether section and content controls apply to the actor.
func (d *CourseDetail) CanEdit() bool {
	return d.p.identity.CanEdit()
}

// CanDeleteContent reports whether the actor may delete content of this course.
func (d *CourseDetail) CanDeleteContent() bool {
	return d.p.identity.CanDeleteContent(d.Course())
}

func (d *CourseDetail) sectionLocked(id int64) (models.Section, int, bool) {
	for i, s := range d.sections {
		if s.ID == id {
			return s, i, true
		}
	}
	return models.Section{}, -1, false
}

func sectionNotFound(id int64) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("section %d not found", id))
}

// AddSection creates a section and appends the stored copy.
func (d *CourseDetail) AddSection(ctx context.Context, title, desc string) (models.Section, error) {
	if !d.CanEdit() {
		return models.Section{}, d.p.forbidden("adding a section")
	}
	if strings.TrimSpace(title) == "" {
		return models.Section{}, ErrSectionTitleRequired
	}
	course := d.Course()
	draft := models.SectionDraft{Title: title, Description: desc, Course: models.CourseRef{ID: course.ID}}
	if err := d.p.validate.Struct(draft); err != nil {
		return models.Section{}, d.p.validationError(err, "invalid section")
	}

	created, err := d.p.store.CreateSection(ctx, draft)
	if err != nil {
		return models.Section{}, d.p.fail("add section", err, zap.Int64("course_id", course.ID))
	}
	if created.ID == 0 {
		// Without an identity the section cannot be tracked; reconcile from the store.
		d.p.logger.Warn("store returned a section without id", zap.Int64("course_id", course.ID))
		if err := d.Refresh(ctx); err != nil {
			return models.Section{}, err
		}
		for _, s := range d.Sections() {
			if s.Title == title {
				created = s
			}
		}
		return created, nil
	}

	if created.Title == "" {
		created.Title = draft.Title
	}
	if created.Description == "" {
		created.Description = draft.Description
	}
	created.Course = draft.Course
	created.CreatedAt = created.CreatedAt.OrNow()
	created.UpdatedAt = created.UpdatedAt.OrNow()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.course.ID != course.ID {
		return created, nil
	}
	d.sections = d.edits.record(d.sections, appendSection(created))
	return created, nil
}

// EditSection enters inline-edit mode for a section and returns its current copy.
func (d *CourseDetail) EditSection(sectionID int64) (models.Section, error) {
	if !d.CanEdit() {
		return models.Section{}, d.p.forbidden("editing a section")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	section, _, ok := d.sectionLocked(sectionID)
	if !ok {
		return models.Section{}, sectionNotFound(sectionID)
	}
	d.editingID = sectionID
	return section, nil
}

// Editing returns the section in edit mode, if any.
func (d *CourseDetail) Editing() (models.Section, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.editingID == 0 {
		return models.Section{}, false
	}
	section, _, ok := d.sectionLocked(d.editingID)
	return section, ok
}

// CancelEdit leaves edit mode without saving.
func (d *CourseDetail) CancelEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editingID = 0
}

// SaveSection sends the full edited section. Edit mode is cleared only after the
// store accepts it.
func (d *CourseDetail) SaveSection(ctx context.Context, edits SectionEdit) (models.Section, error) {
	if !d.CanEdit() {
		return models.Section{}, d.p.forbidden("editing a section")
	}
	d.mu.RLock()
	editingID := d.editingID
	current, _, ok := d.sectionLocked(editingID)
	d.mu.RUnlock()
	if editingID == 0 || !ok {
		return models.Section{}, appErrors.Clone(appErrors.ErrValidation, "no section is being edited")
	}
	if strings.TrimSpace(edits.Title) == "" {
		return models.Section{}, ErrSectionTitleRequired
	}

	payload := current
	payload.Title = edits.Title
	payload.Description = edits.Description
	payload.UpdatedAt = models.Now()
	if err := d.p.validate.Struct(payload); err != nil {
		return models.Section{}, d.p.validationError(err, "invalid section")
	}

	stored, err := d.p.store.UpdateSection(ctx, payload)
	if err != nil {
		return models.Section{}, d.p.fail("save section", err, zap.Int64("section_id", editingID))
	}
	if stored.ID == payload.ID {
		if strings.TrimSpace(stored.Title) != "" {
			payload.Title = stored.Title
			payload.Description = stored.Description
		}
		if !stored.UpdatedAt.IsZero() {
			payload.UpdatedAt = stored.UpdatedAt
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sections = d.edits.record(d.sections, replaceSection(payload))
	if d.editingID == editingID {
		d.editingID = 0
	}
	return payload, nil
}

// RemoveSection deletes a section after confirmation. A refused confirmation
// returns ErrCancelled without contacting the store.
func (d *CourseDetail) RemoveSection(ctx context.Context, sectionID int64) error {
	if !d.CanEdit() {
		return d.p.forbidden("deleting a section")
	}
	d.mu.RLock()
	section, _, ok := d.sectionLocked(sectionID)
	d.mu.RUnlock()
	if !ok {
		return sectionNotFound(sectionID)
	}
	if err := d.p.ask(ctx, fmt.Sprintf("Delete section %q?", section.Title)); err != nil {
		return err
	}
	if err := d.p.store.DeleteSection(ctx, sectionID); err != nil {
		return d.p.fail("delete section", err, zap.Int64("section_id", sectionID))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sections = d.edits.record(d.sections, dropSection(sectionID))
	delete(d.contents, sectionID)
	if d.editingID == sectionID {
		d.editingID = 0
	}
	return nil
}

// Contents returns a section's content, fetching it on first use.
func (d *CourseDetail) Contents(ctx context.Context, sectionID int64) ([]models.Content, error) {
	d.mu.RLock()
	cached, ok := d.contents[sectionID]
	d.mu.RUnlock()
	if ok {
		return append([]models.Content(nil), cached...), nil
	}
	return d.loadContents(ctx, sectionID)
}

// LoadAllContents fetches the content of every section concurrently.
func (d *CourseDetail) LoadAllContents(ctx context.Context) error {
	sections := d.Sections()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(contentFetchConcurrency)
	for _, s := range sections {
		sectionID := s.ID
		g.Go(func() error {
			_, err := d.loadContents(gctx, sectionID)
			return err
		})
	}
	return g.Wait()
}

func (d *CourseDetail) loadContents(ctx context.Context, sectionID int64) ([]models.Content, error) {
	d.mu.Lock()
	d.contentGen[sectionID]++
	gen := d.contentGen[sectionID]
	d.mu.Unlock()

	contents, err := d.p.store.ListContents(ctx, sectionID)
	if err != nil {
		return nil, d.p.fail("load contents", err, zap.Int64("section_id", sectionID))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.contentGen[sectionID] {
		if latest, ok := d.contents[sectionID]; ok {
			return append([]models.Content(nil), latest...), nil
		}
		return append([]models.Content(nil), contents...), nil
	}
	if _, _, ok := d.sectionLocked(sectionID); ok {
		d.contents[sectionID] = contents
	}
	return append([]models.Content(nil), contents...), nil
}

// AddContent attaches a video or PDF link after confirmation, then re-fetches
// the section's content so the view matches the store.
func (d *CourseDetail) AddContent(ctx context.Context, sectionID int64, contentType models.ContentType, url string) ([]models.Content, error) {
	if !d.CanEdit() {
		return nil, d.p.forbidden("adding content")
	}
	d.mu.RLock()
	section, _, ok := d.sectionLocked(sectionID)
	d.mu.RUnlock()
	if !ok {
		return nil, sectionNotFound(sectionID)
	}
	draft := models.ContentDraft{Type: contentType, URL: strings.TrimSpace(url), Section: models.SectionRef{ID: sectionID}}
	if err := d.p.validate.Struct(draft); err != nil {
		return nil, d.p.validationError(err, "invalid content")
	}
	if err := d.p.ask(ctx, fmt.Sprintf("Add %s to section %q?", contentType, section.Title)); err != nil {
		return nil, err
	}
	if _, err := d.p.store.CreateContent(ctx, draft); err != nil {
		return nil, d.p.fail("add content", err, zap.Int64("section_id", sectionID))
	}
	return d.loadContents(ctx, sectionID)
}

// RemoveContent deletes a content item after confirmation. Only the course's
// own instructor may do so. Failures carry the store's message, or a generic
// one naming the content type.
func (d *CourseDetail) RemoveContent(ctx context.Context, sectionID, contentID int64, contentType models.ContentType) error {
	if !d.CanDeleteContent() {
		return appErrors.Clone(appErrors.ErrForbidden, "only the course instructor can delete content")
	}
	if err := d.p.ask(ctx, fmt.Sprintf("Delete this %s?", contentType)); err != nil {
		return err
	}
	if err := d.p.store.DeleteContent(ctx, contentID); err != nil {
		return d.p.fail("delete content", contentFailure(err, contentType), zap.Int64("content_id", contentID))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.contentGen[sectionID]++
	if list, ok := d.contents[sectionID]; ok {
		kept := make([]models.Content, 0, len(list))
		for _, c := range list {
			if c.ID != contentID {
				kept = append(kept, c)
			}
		}
		d.contents[sectionID] = kept
	}
	return nil
}

func contentFailure(err error, contentType models.ContentType) error {
	if appErrors.HasCode(err, appErrors.ErrRemote.Code) && appErrors.Message(err, "") != "" {
		return err
	}
	base := appErrors.FromError(err)
	return appErrors.Wrap(err, base.Code, base.Status, fmt.Sprintf("failed to delete %s", contentType))
}

// SaveCourse sends the full course with edits applied and adopts it locally
// once the store accepts it.
func (d *CourseDetail) SaveCourse(ctx context.Context, edits models.CourseDraft) (models.Course, error) {
	if !d.CanEdit() {
		return models.Course{}, d.p.forbidden("editing a course")
	}
	if err := d.p.validate.Struct(edits); err != nil {
		return models.Course{}, d.p.validationError(err, "invalid course")
	}
	current := d.Course()
	payload := edits.Apply(current)
	payload.UpdatedAt = models.Now()

	stored, err := d.p.store.UpdateCourse(ctx, payload)
	if err != nil {
		return models.Course{}, d.p.fail("save course", err, zap.Int64("course_id", current.ID))
	}
	if stored.ID == payload.ID {
		payload = stored.Fill(payload)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.course.ID != current.ID {
		return payload, nil
	}
	d.course = payload
	return payload, nil
}

// IsEnrolled is always true for staff; students read their local flag.
func (d *CourseDetail) IsEnrolled(ctx context.Context) (bool, error) {
	if d.p.identity.AlwaysEnrolled() {
		return true, nil
	}
	return d.p.flags.Enrolled(ctx, d.Course().ID)
}

// Enroll records the student's enrollment locally.
func (d *CourseDetail) Enroll(ctx context.Context) error {
	if d.p.identity.AlwaysEnrolled() {
		return nil
	}
	courseID := d.Course().ID
	if err := d.p.flags.SetEnrolled(ctx, courseID, true); err != nil {
		return d.p.fail("enroll", err, zap.Int64("course_id", courseID))
	}
	d.p.logger.Info("enrolled", zap.Int64("course_id", courseID))
	return nil
}
