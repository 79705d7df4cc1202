package portal

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
)

type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	courses     []models.Course
	sections    map[int64][]models.Section
	contents    map[int64][]models.Content
	assignments []models.Assignment
	progress    []models.ProgressRecord
	nextID      int64

	errs map[string]error

	// listCourses, when set, replaces ListCourses.
	listCourses func(ctx context.Context) ([]models.Course, error)
	// listSections, when set, replaces ListSections.
	listSections func(ctx context.Context, courseID int64) ([]models.Section, error)

	// createdSection overrides what CreateSection echoes.
	createdSection *models.Section
	lastUpdate     *models.Course
	lastDraft      *models.CourseDraft
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls:    map[string]int{},
		sections: map[int64][]models.Section{},
		contents: map[int64][]models.Content{},
		errs:     map[string]error{},
		nextID:   100,
	}
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.record("ListCourses"); err != nil {
		return nil, err
	}
	if f.listCourses != nil {
		return f.listCourses(ctx)
	}
	return append([]models.Course(nil), f.courses...), nil
}

func (f *fakeStore) CreateCourse(_ context.Context, draft models.CourseDraft) (models.Course, error) {
	if err := f.record("CreateCourse"); err != nil {
		return models.Course{}, err
	}
	f.lastDraft = &draft
	return models.Course{ID: f.id(), Title: draft.Title}, nil
}

func (f *fakeStore) UpdateCourse(_ context.Context, course models.Course) (models.Course, error) {
	if err := f.record("UpdateCourse"); err != nil {
		return models.Course{}, err
	}
	f.lastUpdate = &course
	return course, nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, _ int64) error {
	return f.record("DeleteCourse")
}

func (f *fakeStore) ListSections(ctx context.Context, courseID int64) ([]models.Section, error) {
	if err := f.record("ListSections"); err != nil {
		return nil, err
	}
	if f.listSections != nil {
		return f.listSections(ctx, courseID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Section(nil), f.sections[courseID]...), nil
}

func (f *fakeStore) CreateSection(_ context.Context, draft models.SectionDraft) (models.Section, error) {
	if err := f.record("CreateSection"); err != nil {
		return models.Section{}, err
	}
	if f.createdSection != nil {
		return *f.createdSection, nil
	}
	s := models.Section{ID: f.id(), Title: draft.Title, Description: draft.Description, Course: draft.Course}
	f.mu.Lock()
	f.sections[draft.Course.ID] = append(f.sections[draft.Course.ID], s)
	f.mu.Unlock()
	return s, nil
}

func (f *fakeStore) UpdateSection(_ context.Context, section models.Section) (models.Section, error) {
	if err := f.record("UpdateSection"); err != nil {
		return models.Section{}, err
	}
	return section, nil
}

func (f *fakeStore) DeleteSection(_ context.Context, _ int64) error {
	return f.record("DeleteSection")
}

func (f *fakeStore) ListContents(_ context.Context, sectionID int64) ([]models.Content, error) {
	if err := f.record(fmt.Sprintf("ListContents:%d", sectionID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Content(nil), f.contents[sectionID]...), nil
}

func (f *fakeStore) CreateContent(_ context.Context, draft models.ContentDraft) (models.Content, error) {
	if err := f.record("CreateContent"); err != nil {
		return models.Content{}, err
	}
	c := models.Content{ID: f.id(), Type: draft.Type, URL: draft.URL, Section: draft.Section}
	f.mu.Lock()
	f.contents[draft.Section.ID] = append(f.contents[draft.Section.ID], c)
	f.mu.Unlock()
	return c, nil
}

func (f *fakeStore) DeleteContent(_ context.Context, _ int64) error {
	return f.record("DeleteContent")
}

func (f *fakeStore) ListAssignments(_ context.Context, _ string) ([]models.Assignment, error) {
	if err := f.record("ListAssignments"); err != nil {
		return nil, err
	}
	return f.assignments, nil
}

func (f *fakeStore) StudentProgress(_ context.Context, _ string) ([]models.ProgressRecord, error) {
	if err := f.record("StudentProgress"); err != nil {
		return nil, err
	}
	return f.progress, nil
}

type scriptedConfirm struct {
	answer  bool
	prompts []string
}

func (s *scriptedConfirm) Confirm(_ context.Context, prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, nil
}

var (
	teacherLeo = session.Identity{Role: session.RoleTeacher, Name: "LEO", RollNumber: "T01"}
	adminAna   = session.Identity{Role: session.RoleAdmin, Name: "Ana"}
	studentBob = session.Identity{Role: session.RoleStudent, Name: "Bob", RollNumber: "STU123"}
)

func newTestPortal(store RemoteStore, id session.Identity, confirm Confirmer) *Portal {
	return New(store, id, Options{Confirm: confirm})
}

func makeCourses(n int, dept string) []models.Course {
	out := make([]models.Course, n)
	for i := range out {
		out[i] = models.Course{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Course %02d", i+1),
			Description: "d",
			Dept:        dept,
			Duration:    10,
			Credit:      3,
		}
	}
	return out
}
