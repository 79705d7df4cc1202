package portal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// Catalog is the filterable, paginated list of every course.
type Catalog struct {
	p *Portal

	mu       sync.RWMutex
	courses  []models.Course
	loaded   bool
	err      error
	category string
	query    string
	visible  int

	// gen orders fetches: a response is applied only if no later fetch was
	// issued. Mutations confirmed meanwhile are replayed onto it.
	gen   uint64
	edits replayLog[models.Course]
}

func newCatalog(p *Portal) *Catalog {
	return &Catalog{p: p, category: AllCategories, visible: p.pageSize}
}

// Load fetches the catalogue. On failure the previous list is kept and the
// error is remembered for Err.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	since := c.edits.begin()
	c.mu.Unlock()

	courses, err := c.p.store.ListCourses(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.edits.end()
		c.p.logger.Debug("discarding superseded course list", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		c.edits.end()
		c.err = err
		return c.p.fail("load courses", err)
	}
	c.courses = c.edits.finish(since, courses)
	c.loaded = true
	c.err = nil
	return nil
}

// Retry performs exactly one more Load.
func (c *Catalog) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

// Err returns the failure of the most recent applied Load, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Loaded reports whether a Load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Courses returns the whole catalogue, unfiltered.
func (c *Catalog) Courses() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Course(nil), c.courses...)
}

// Find looks a course up by id in the loaded list.
func (c *Catalog) Find(courseID int64) (models.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, course := range c.courses {
		if course.ID == courseID {
			return course, true
		}
	}
	return models.Course{}, false
}

// SetCategory selects a department, clears the search and resets paging.
func (c *Catalog) SetCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
	c.query = ""
	c.visible = c.p.pageSize
}

// SetQuery sets the title search and resets paging.
func (c *Catalog) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.visible = c.p.pageSize
}

// Category returns the selected department.
func (c *Catalog) Category() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

// Query returns the current title search.
func (c *Catalog) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Filtered applies the category and then the title search.
func (c *Catalog) Filtered() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filteredLocked()
}

func (c *Catalog) filteredLocked() []models.Course {
	return SearchByTitle(FilterByCategory(c.courses, c.category), c.query)
}

// Visible returns the first page-sized window of the filtered list.
func (c *Catalog) Visible() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	filtered := c.filteredLocked()
	n := c.visible
	if n > len(filtered) {
		n = len(filtered)
	}
	return append([]models.Course(nil), filtered[:n]...)
}

// HasMore reports whether filtered courses remain hidden.
func (c *Catalog) HasMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible < len(c.filteredLocked())
}

// ShowMore reveals one more page.
func (c *Catalog) ShowMore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible += c.p.pageSize
}

// Suggestions returns the dropdown matches for the current query within the
// selected category.
func (c *Catalog) Suggestions() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Suggest(FilterByCategory(c.courses, c.category), c.query)
}

// Categories lists the department filters for the loaded courses.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Categories(c.courses)
}

// CreateCourse validates draft locally, submits it and prepends the stored
// course. Invalid drafts never reach the store.
func (c *Catalog) CreateCourse(ctx context.Context, draft models.CourseDraft) (models.Course, error) {
	if !c.p.identity.CanEdit() {
		return models.Course{}, c.p.forbidden("creating a course")
	}
	if draft.InstructorName == "" {
		draft.InstructorName = c.p.identity.Name
	}
	if err := c.p.validate.Struct(draft); err != nil {
		return models.Course{}, c.p.validationError(err, "invalid course")
	}

	created, err := c.p.store.CreateCourse(ctx, draft)
	if err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return models.Course{}, c.p.fail("create course", err, zap.String("title", draft.Title))
	}

	now := models.Now()
	fallback := draft.Apply(models.Course{CreatedAt: now, UpdatedAt: now})
	if fallback.InstructorName == "" {
		fallback.InstructorName = "Current User"
	}
	course := created.Fill(fallback)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = c.edits.record(c.courses, prependCourse(course))
	c.err = nil
	return course, nil
}

// DeleteCourse asks for confirmation and removes the course once the store agrees.
func (c *Catalog) DeleteCourse(ctx context.Context, courseID int64) error {
	if !c.p.identity.CanEdit() {
		return c.p.forbidden("deleting a course")
	}
	course, ok := c.Find(courseID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if err := c.p.ask(ctx, "Delete course \""+course.Title+"\"?"); err != nil {
		return err
	}
	if err := c.p.store.DeleteCourse(ctx, courseID); err != nil {
		return c.p.fail("delete course", err, zap.Int64("course_id", courseID))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = c.edits.record(c.courses, dropCourse(courseID))
	return nil
}
