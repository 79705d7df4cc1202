package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/coursestore"
	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type storeFixture struct {
	courses     *courseServiceMock
	sections    *sectionServiceMock
	contents    *contentServiceMock
	submissions *submissionServiceMock
	tokens      *session.Tokens
	server      *httptest.Server
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &storeFixture{
		courses:     &courseServiceMock{courses: []models.Course{{ID: 1, Title: "Go", Description: "Intro", Duration: 4, Credit: 2, InstructorName: "Leo"}}},
		sections:    &sectionServiceMock{sections: []models.Section{{ID: 10, Course: models.CourseRef{ID: 1}, Title: "Setup"}}},
		contents:    &contentServiceMock{},
		submissions: &submissionServiceMock{progress: map[string][]models.ProgressRecord{}},
		tokens:      session.NewTokens("secret", "course-portal", time.Hour),
	}

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.OptionalJWT(f.tokens))
	Register(api, Handlers{
		Courses:     NewCourseHandler(f.courses),
		Sections:    NewSectionHandler(f.sections, f.contents),
		Submissions: NewSubmissionHandler(f.submissions),
	}, middleware.JWT(f.tokens), middleware.RequireRoles(middleware.Staff...))

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *storeFixture) client(t *testing.T, id *session.Identity) *coursestore.Client {
	t.Helper()
	client, err := coursestore.New(coursestore.Config{BaseURL: f.server.URL, Timeout: 5 * time.Second}, f.server.Client(), zap.NewNop())
	require.NoError(t, err)
	if id == nil {
		return client
	}
	raw, _, err := f.tokens.Issue(*id)
	require.NoError(t, err)
	return client.WithToken(raw)
}

func TestStoreRoundTripThroughClient(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	teacher := f.client(t, &session.Identity{Role: session.RoleTeacher, Name: "Leo"})

	courses, err := teacher.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go", courses[0].Title)

	created, err := teacher.CreateCourse(ctx, models.CourseDraft{Title: "SQL", Description: "Joins", Duration: 3, Credit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	require.NotNil(t, f.courses.lastActor)
	assert.Equal(t, "Leo", f.courses.lastActor.Name)

	created.Title = "SQL II"
	updated, err := teacher.UpdateCourse(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "SQL II", updated.Title)

	section, err := teacher.CreateSection(ctx, models.SectionDraft{Title: "Joins", Course: models.CourseRef{ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), section.Course.ID)

	sections, err := teacher.ListSections(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Setup", sections[0].Title)

	content, err := teacher.CreateContent(ctx, models.ContentDraft{Type: models.ContentPDF, URL: "https://docs.example.com/a.pdf", Section: models.SectionRef{ID: 10}})
	require.NoError(t, err)
	contents, err := teacher.ListContents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, content.ID, contents[0].ID)

	require.NoError(t, teacher.DeleteContent(ctx, content.ID))
	assert.Equal(t, []int64{content.ID}, f.contents.deleted)
	require.NoError(t, teacher.DeleteSection(ctx, section.ID))
	assert.Equal(t, []int64{section.ID}, f.sections.deleted)
	require.NoError(t, teacher.DeleteCourse(ctx, 2))
	assert.Equal(t, []int64{2}, f.courses.deleted)
}

func TestStoreRejectsAnonymousAndStudentWrites(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	_, err := f.client(t, nil).CreateCourse(ctx, models.CourseDraft{Title: "x", Description: "y", Duration: 1, Credit: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)

	student := f.client(t, &session.Identity{Role: session.RoleStudent, Name: "Bob", RollNumber: "STU1"})
	err = student.DeleteCourse(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.Equal(t, "this action requires a teacher or admin role", appErrors.FromError(err).Message)

	courses, err := student.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestStoreAssignmentsAndProgressThroughClient(t *testing.T) {
	f := newStoreFixture(t)
	f.submissions.assignments = []models.Assignment{{ID: "a1", CourseID: "1", Title: "Essay"}, {ID: "a2", CourseID: "12", Title: "Quiz"}}
	f.submissions.progress["1"] = []models.ProgressRecord{{RollNumber: "STU1", Name: "Bob", Percentage: 55, Grade: models.ParseFlexFloat("81.5")}}
	client := f.client(t, &session.Identity{Role: session.RoleStudent, Name: "Bob", RollNumber: "STU1"})

	assignments, err := client.ListAssignments(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "a1", assignments[0].ID)

	records, err := client.StudentProgress(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 81.5, records[0].Grade.Value, 0.001)
}
