package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/storage"
)

type courseServiceMock struct {
	courses   []models.Course
	lastDraft models.CourseDraft
	lastActor *session.Identity
	deleted   []int64
	err       error
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}

func (m *courseServiceMock) Create(ctx context.Context, draft models.CourseDraft, actor *session.Identity) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastDraft, m.lastActor = draft, actor
	course := draft.Apply(models.Course{ID: int64(len(m.courses) + 1)})
	m.courses = append(m.courses, course)
	return &course, nil
}

func (m *courseServiceMock) Update(ctx context.Context, course models.Course) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.courses {
		if m.courses[i].ID == course.ID {
			m.courses[i] = course
			return &course, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (m *courseServiceMock) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.courses {
		if m.courses[i].ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

type sectionServiceMock struct {
	sections  []models.Section
	lastDraft models.SectionDraft
	deleted   []int64
}

func (m *sectionServiceMock) ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error) {
	out := []models.Section{}
	for _, s := range m.sections {
		if s.Course.ID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *sectionServiceMock) Create(ctx context.Context, draft models.SectionDraft) (*models.Section, error) {
	m.lastDraft = draft
	section := models.Section{ID: int64(len(m.sections) + 10), Course: draft.Course, Title: draft.Title, Description: draft.Description}
	m.sections = append(m.sections, section)
	return &section, nil
}

func (m *sectionServiceMock) Update(ctx context.Context, section models.Section) (*models.Section, error) {
	for i := range m.sections {
		if m.sections[i].ID == section.ID {
			section.Course = m.sections[i].Course
			m.sections[i] = section
			return &section, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
}

func (m *sectionServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type contentServiceMock struct {
	contents  []models.Content
	lastDraft models.ContentDraft
	lastActor *session.Identity
	deleted   []int64
	deleteErr error
}

func (m *contentServiceMock) ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error) {
	out := []models.Content{}
	for _, c := range m.contents {
		if c.Section.ID == sectionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *contentServiceMock) Create(ctx context.Context, draft models.ContentDraft) (*models.Content, error) {
	m.lastDraft = draft
	content := models.Content{ID: int64(len(m.contents) + 100), Type: draft.Type, URL: draft.URL, Section: draft.Section}
	m.contents = append(m.contents, content)
	return &content, nil
}

func (m *contentServiceMock) Delete(ctx context.Context, id int64, actor *session.Identity) error {
	m.lastActor = actor
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type submissionServiceMock struct {
	assignments []models.Assignment
	progress    map[string][]models.ProgressRecord
}

func (m *submissionServiceMock) Assignments(ctx context.Context, courseID string) (*models.AssignmentList, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	list := &models.AssignmentList{Assignments: []models.Assignment{}, Message: "ok"}
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			list.Assignments = append(list.Assignments, a)
		}
	}
	return list, nil
}

func (m *submissionServiceMock) CreateAssignment(ctx context.Context, req service.CreateAssignmentRequest) (*models.Assignment, error) {
	a := models.Assignment{ID: "new", CourseID: req.CourseID, Title: req.Title}
	m.assignments = append(m.assignments, a)
	return &a, nil
}

func (m *submissionServiceMock) Progress(ctx context.Context, courseID string) (*models.ProgressReport, error) {
	return &models.ProgressReport{Students: m.progress[courseID]}, nil
}

func (m *submissionServiceMock) RecordProgress(ctx context.Context, courseID string, req service.RecordProgressRequest) (*models.ProgressRecord, error) {
	record := models.ProgressRecord{RollNumber: req.RollNumber, Name: req.Name, Percentage: req.Percentage, Grade: req.AverageGrade}
	if m.progress == nil {
		m.progress = map[string][]models.ProgressRecord{}
	}
	m.progress[courseID] = append(m.progress[courseID], record)
	return &record, nil
}

func newContext(method, target string, body []byte, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.Request = req
	return c, w
}

func TestCourseHandlerCreatePassesActor(t *testing.T) {
	svc := &courseServiceMock{}
	handler := NewCourseHandler(svc)
	body := []byte(`{"title":"Go Basics","description":"Intro","category":"CS","duration":"10","credit":3}`)
	c, w := newContext(http.MethodPost, "/api/course/add", body, "application/json")
	actor := &session.Identity{Role: session.RoleTeacher, Name: "Leo"}
	c.Set(middleware.ContextUserKey, actor)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Go Basics", svc.lastDraft.Title)
	assert.Equal(t, "CS", svc.lastDraft.Dept)
	assert.Equal(t, 10, svc.lastDraft.Duration)
	assert.Same(t, actor, svc.lastActor)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Go Basics", created["courseTitle"])
	assert.EqualValues(t, 1, created["course_id"])
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{})
	c, w := newContext(http.MethodPost, "/api/course/add", []byte(`not json`), "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerDelete(t *testing.T) {
	svc := &courseServiceMock{courses: []models.Course{{ID: 4}}}
	handler := NewCourseHandler(svc)

	c, w := newContext(http.MethodDelete, "/api/course/delete?course_id=4", nil, "")
	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{4}, svc.deleted)

	c, w = newContext(http.MethodDelete, "/api/course/delete?course_id=abc", nil, "")
	handler.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodDelete, "/api/course/delete?course_id=9", nil, "")
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body appErrors.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "course not found", body.Message)
}

func TestCourseHandlerListFailure(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{err: appErrors.Clone(appErrors.ErrInternal, "failed to list courses")})
	c, w := newContext(http.MethodGet, "/api/course/details", nil, "")

	handler.List(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to list courses")
}

func TestSectionHandlerCreateAcceptsFlatCourseID(t *testing.T) {
	sections := &sectionServiceMock{}
	handler := NewSectionHandler(sections, &contentServiceMock{})
	c, w := newContext(http.MethodPost, "/api/course/section/add", []byte(`{"sectionTitle":"Intro","course_id":"7"}`), "application/json")

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(7), sections.lastDraft.Course.ID)
	assert.Equal(t, "Intro", sections.lastDraft.Title)
}

func TestSectionHandlerDeleteReadsPlainBody(t *testing.T) {
	cases := map[string]string{
		"plain":  "12",
		"spaced": " 12\n",
		"quoted": `"12"`,
		"object": `{"id": 12}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sections := &sectionServiceMock{}
			handler := NewSectionHandler(sections, &contentServiceMock{})
			c, w := newContext(http.MethodDelete, "/api/course/section/delete", []byte(body), "text/plain")

			handler.Delete(c)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []int64{12}, sections.deleted)
		})
	}

	handler := NewSectionHandler(&sectionServiceMock{}, &contentServiceMock{})
	c, w := newContext(http.MethodDelete, "/api/course/section/delete", []byte("twelve"), "text/plain")
	handler.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSectionHandlerContentFlow(t *testing.T) {
	contents := &contentServiceMock{}
	handler := NewSectionHandler(&sectionServiceMock{}, contents)

	c, w := newContext(http.MethodPost, "/api/course/section/content/add",
		[]byte(`{"contentType":"video","contentUrl":"https://videos.example.com/1","section":{"id":3}}`), "application/json")
	handler.AddContent(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.ContentVideo, contents.lastDraft.Type)
	assert.Equal(t, int64(3), contents.lastDraft.Section.ID)

	c, w = newContext(http.MethodGet, "/api/course/section/content/details?id=3", nil, "")
	handler.Contents(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"https://videos.example.com/1"`)

	contents.deleteErr = appErrors.Clone(appErrors.ErrForbidden, "only the course instructor can delete its content")
	c, w = newContext(http.MethodDelete, "/api/course/section/content/delete", []byte("100"), "text/plain")
	actor := &session.Identity{Role: session.RoleTeacher, Name: "Ana"}
	c.Set(middleware.ContextUserKey, actor)
	handler.DeleteContent(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Same(t, actor, contents.lastActor)
}

func TestSubmissionHandlerAssignmentsAndProgress(t *testing.T) {
	svc := &submissionServiceMock{
		assignments: []models.Assignment{{ID: "a1", CourseID: "12", Title: "Essay"}},
		progress:    map[string][]models.ProgressRecord{"12": {{RollNumber: "STU1", Percentage: 40}}},
	}
	handler := NewSubmissionHandler(svc)

	c, w := newContext(http.MethodGet, "/api/assignments/course?courseId=12", nil, "")
	handler.Assignments(c)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.AssignmentList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Assignments, 1)
	assert.Equal(t, "Essay", list.Assignments[0].Title)

	c, w = newContext(http.MethodGet, "/api/assignments/course", nil, "")
	handler.Assignments(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodGet, "/api/submissions/courses/12/student-progress", nil, "")
	c.Params = gin.Params{{Key: "courseId", Value: "12"}}
	handler.Progress(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), `{"students":[`))
}

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
	})
	c, w := newContext(http.MethodGet, "/ready", nil, "")
	handler.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	handler = NewMetricsHandler(nil, map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return appErrors.ErrInternal }),
	})
	c, w = newContext(http.MethodGet, "/ready", nil, "")
	handler.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

type progressRowsStub map[string][]models.ProgressRecord

func (p progressRowsStub) ListByCourse(ctx context.Context, courseID string) ([]models.ProgressRecord, error) {
	return p[courseID], nil
}

func (p progressRowsStub) Upsert(ctx context.Context, courseID string, record models.ProgressRecord) error {
	return nil
}

func TestReportHandlerExportThenDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewReportService(progressRowsStub{"12": {{RollNumber: "STU1", Name: "Ana", Percentage: 40}}},
		exports, storage.NewLinkSigner("secret", time.Hour), nil, nil, "/api/exports")

	r := gin.New()
	Register(r.Group("/api"), Handlers{
		Courses:     NewCourseHandler(&courseServiceMock{}),
		Sections:    NewSectionHandler(&sectionServiceMock{}, &contentServiceMock{}),
		Submissions: NewSubmissionHandler(&submissionServiceMock{}),
		Reports:     NewReportHandler(svc),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/submissions/courses/12/student-progress/export?format=csv", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var result service.ProgressExport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, strings.HasPrefix(result.URL, "/api/exports/"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, result.URL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "STU1,Ana")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/exports/forged.token.value", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/submissions/courses/12/student-progress/export?format=xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
