package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func TestCatalogShowMore(t *testing.T) {
	store := newFakeStore()
	store.courses = makeCourses(20, "CS")
	catalog := newTestPortal(store, studentBob, nil).Catalog()

	require.NoError(t, catalog.Load(context.Background()))
	assert.Len(t, catalog.Visible(), 8)
	assert.True(t, catalog.HasMore())

	catalog.ShowMore()
	assert.Len(t, catalog.Visible(), 16)
	assert.True(t, catalog.HasMore())

	catalog.ShowMore()
	assert.Len(t, catalog.Visible(), 20)
	assert.False(t, catalog.HasMore())
}

func TestCatalogFilterChangesResetPaging(t *testing.T) {
	store := newFakeStore()
	store.courses = append(makeCourses(12, "CS"), models.Course{ID: 99, Title: "Optics", Dept: "PHY"})
	catalog := newTestPortal(store, studentBob, nil).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	catalog.ShowMore()
	catalog.SetQuery("course 1")
	assert.Len(t, catalog.Visible(), 3)
	assert.False(t, catalog.HasMore())

	catalog.ShowMore()
	catalog.SetCategory("PHY")
	assert.Equal(t, "", catalog.Query())
	assert.Len(t, catalog.Visible(), 1)

	catalog.SetCategory("CS")
	assert.Len(t, catalog.Visible(), 8)
	assert.Equal(t, []string{"All", "CS", "PHY"}, catalog.Categories())
}

func TestCatalogSuggestionsFollowCategory(t *testing.T) {
	store := newFakeStore()
	store.courses = sampleCatalogue()
	catalog := newTestPortal(store, studentBob, nil).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	catalog.SetCategory("CS")
	catalog.SetQuery("go")
	assert.Len(t, catalog.Suggestions(), 3)
}

func TestCatalogLoadFailureKeepsListAndRetries(t *testing.T) {
	store := newFakeStore()
	store.courses = makeCourses(3, "CS")
	catalog := newTestPortal(store, studentBob, nil).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	store.errs["ListCourses"] = appErrors.Clone(appErrors.ErrTransport, "")
	err := catalog.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, catalog.Err(), appErrors.ErrTransport)
	assert.Len(t, catalog.Courses(), 3)

	delete(store.errs, "ListCourses")
	require.NoError(t, catalog.Retry(context.Background()))
	assert.NoError(t, catalog.Err())
	assert.Equal(t, 3, store.count("ListCourses"))
}

func TestCatalogDiscardsSupersededResponse(t *testing.T) {
	store := newFakeStore()
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var mu sync.Mutex
	call := 0
	store.listCourses = func(ctx context.Context) ([]models.Course, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return makeCourses(1, "OLD"), nil
		}
		return makeCourses(2, "NEW"), nil
	}
	catalog := newTestPortal(store, studentBob, nil).Catalog()

	done := make(chan error)
	go func() { done <- catalog.Load(context.Background()) }()
	<-firstStarted

	require.NoError(t, catalog.Load(context.Background()))
	close(releaseFirst)
	require.NoError(t, <-done)

	courses := catalog.Courses()
	require.Len(t, courses, 2)
	assert.Equal(t, "NEW", courses[0].Dept)
}

func TestCatalogLoadKeepsMutationConfirmedInFlight(t *testing.T) {
	store := newFakeStore()
	started := make(chan struct{})
	release := make(chan struct{})
	store.listCourses = func(ctx context.Context) ([]models.Course, error) {
		close(started)
		<-release
		return makeCourses(20, "CS"), nil
	}
	confirm := &scriptedConfirm{answer: true}
	catalog := newTestPortal(store, teacherLeo, confirm).Catalog()

	done := make(chan error)
	go func() { done <- catalog.Load(context.Background()) }()
	<-started

	created, err := catalog.CreateCourse(context.Background(), models.CourseDraft{Title: "New", Description: "x", Duration: 1, Credit: 1})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	assert.True(t, catalog.Loaded())
	assert.NoError(t, catalog.Err())
	courses := catalog.Courses()
	require.Len(t, courses, 21)
	assert.Equal(t, created.ID, courses[0].ID)

	require.NoError(t, catalog.DeleteCourse(context.Background(), 3))
	_, found := catalog.Find(3)
	assert.False(t, found)
	assert.Len(t, catalog.Courses(), 20)
}

func TestCatalogLoadDropsCourseDeletedInFlight(t *testing.T) {
	store := newFakeStore()
	store.courses = makeCourses(3, "CS")
	confirm := &scriptedConfirm{answer: true}
	catalog := newTestPortal(store, teacherLeo, confirm).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	store.listCourses = func(ctx context.Context) ([]models.Course, error) {
		close(started)
		<-release
		return makeCourses(3, "CS"), nil
	}
	done := make(chan error)
	go func() { done <- catalog.Load(context.Background()) }()
	<-started

	require.NoError(t, catalog.DeleteCourse(context.Background(), 2))
	close(release)
	require.NoError(t, <-done)

	courses := catalog.Courses()
	require.Len(t, courses, 2)
	for _, c := range courses {
		assert.NotEqual(t, int64(2), c.ID)
	}
}

func TestCreateCourseBoundaries(t *testing.T) {
	valid := models.CourseDraft{Title: "Go", Description: "Basics", Duration: 10, Credit: 3}
	cases := []struct {
		name   string
		edit   func(*models.CourseDraft)
		accept bool
	}{
		{"duration zero", func(d *models.CourseDraft) { d.Duration = 0 }, false},
		{"credit zero", func(d *models.CourseDraft) { d.Credit = 0 }, false},
		{"credit eleven", func(d *models.CourseDraft) { d.Credit = 11 }, false},
		{"credit one", func(d *models.CourseDraft) { d.Credit = 1 }, true},
		{"credit ten", func(d *models.CourseDraft) { d.Credit = 10 }, true},
		{"blank title", func(d *models.CourseDraft) { d.Title = " " }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			catalog := newTestPortal(store, teacherLeo, nil).Catalog()
			draft := valid
			tc.edit(&draft)

			_, err := catalog.CreateCourse(context.Background(), draft)
			if tc.accept {
				require.NoError(t, err)
				assert.Equal(t, 1, store.count("CreateCourse"))
				return
			}
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Equal(t, 0, store.total())
		})
	}
}

func TestCreateCoursePrependsAndFillsDefaults(t *testing.T) {
	store := newFakeStore()
	store.courses = makeCourses(2, "CS")
	catalog := newTestPortal(store, teacherLeo, nil).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	created, err := catalog.CreateCourse(context.Background(), models.CourseDraft{
		Title: "New", Description: "Fresh", Dept: "CS", IsActive: true, Duration: 5, Credit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "LEO", store.lastDraft.InstructorName)
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, "Fresh", created.Description)
	assert.Equal(t, "LEO", created.InstructorName)
	assert.False(t, created.CreatedAt.IsZero())

	courses := catalog.Courses()
	require.Len(t, courses, 3)
	assert.Equal(t, created, courses[0])
}

func TestCreateCourseFailureRecordsError(t *testing.T) {
	store := newFakeStore()
	store.errs["CreateCourse"] = appErrors.Remote(500, "database down")
	catalog := newTestPortal(store, adminAna, nil).Catalog()

	_, err := catalog.CreateCourse(context.Background(), models.CourseDraft{Title: "Go", Description: "x", Duration: 1, Credit: 1})
	require.Error(t, err)
	assert.Equal(t, "database down", appErrors.Message(catalog.Err(), ""))
	assert.Empty(t, catalog.Courses())
}

func TestCreateCourseRequiresStaff(t *testing.T) {
	store := newFakeStore()
	_, err := newTestPortal(store, studentBob, nil).Catalog().CreateCourse(context.Background(), models.CourseDraft{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, 0, store.total())
}

func TestDeleteCourse(t *testing.T) {
	store := newFakeStore()
	store.courses = makeCourses(3, "CS")
	confirm := &scriptedConfirm{answer: false}
	catalog := newTestPortal(store, teacherLeo, confirm).Catalog()
	require.NoError(t, catalog.Load(context.Background()))

	err := catalog.DeleteCourse(context.Background(), 2)
	assert.ErrorIs(t, err, appErrors.ErrCancelled)
	assert.Equal(t, 0, store.count("DeleteCourse"))
	assert.Len(t, catalog.Courses(), 3)

	confirm.answer = true
	require.NoError(t, catalog.DeleteCourse(context.Background(), 2))
	assert.Len(t, catalog.Courses(), 2)
	_, found := catalog.Find(2)
	assert.False(t, found)

	err = catalog.DeleteCourse(context.Background(), 42)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
