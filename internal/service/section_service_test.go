package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type mockSectionRepo struct {
	items   map[int64]models.Section
	nextID  int64
	deleted []int64
}

func (m *mockSectionRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error) {
	var out []models.Section
	for _, s := range m.items {
		if s.Course.ID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSectionRepo) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	if s, ok := m.items[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	m.nextID++
	section.ID = m.nextID
	section.CreatedAt = models.Now()
	m.items[section.ID] = *section
	return nil
}

func (m *mockSectionRepo) Update(ctx context.Context, section *models.Section) error {
	current, ok := m.items[section.ID]
	if !ok {
		return sql.ErrNoRows
	}
	section.Course = current.Course
	m.items[section.ID] = *section
	return nil
}

func (m *mockSectionRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockContentRepo struct {
	items      map[int64]models.Content
	instructor map[int64]string
	nextID     int64
}

func (m *mockContentRepo) ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error) {
	var out []models.Content
	for _, c := range m.items {
		if c.Section.ID == sectionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockContentRepo) Create(ctx context.Context, content *models.Content) error {
	m.nextID++
	content.ID = m.nextID
	m.items[content.ID] = *content
	return nil
}

func (m *mockContentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockContentRepo) InstructorOf(ctx context.Context, id int64) (string, error) {
	name, ok := m.instructor[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	return name, nil
}

func TestSectionServiceCreate(t *testing.T) {
	courses := newMockCourseRepo(models.Course{ID: 7, Title: "Go"})
	repo := &mockSectionRepo{items: map[int64]models.Section{}, nextID: 20}
	svc := NewSectionService(repo, courses, nil, nil, nil)

	section, err := svc.Create(context.Background(), models.SectionDraft{Title: "  Intro ", Course: models.CourseRef{ID: 7}})
	require.NoError(t, err)
	assert.Equal(t, int64(21), section.ID)
	assert.Equal(t, "Intro", section.Title)

	_, err = svc.Create(context.Background(), models.SectionDraft{Title: "Intro", Course: models.CourseRef{ID: 8}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(context.Background(), models.SectionDraft{Title: " ", Course: models.CourseRef{ID: 7}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), models.SectionDraft{Title: "Intro"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSectionServiceUpdateAndDelete(t *testing.T) {
	repo := &mockSectionRepo{items: map[int64]models.Section{
		3: {ID: 3, Course: models.CourseRef{ID: 7}, Title: "Intro"},
	}}
	svc := NewSectionService(repo, newMockCourseRepo(), nil, nil, nil)

	updated, err := svc.Update(context.Background(), models.Section{ID: 3, Title: "Welcome", Description: "Start here"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.Course.ID)
	assert.Equal(t, "Start here", updated.Description)

	_, err = svc.Update(context.Background(), models.Section{ID: 3, Title: ""})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = svc.Update(context.Background(), models.Section{ID: 4, Title: "x"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.ErrorIs(t, svc.Delete(context.Background(), 3), appErrors.ErrNotFound)
}

func TestSectionServiceListByCourse(t *testing.T) {
	repo := &mockSectionRepo{items: map[int64]models.Section{}}
	svc := NewSectionService(repo, newMockCourseRepo(), nil, nil, nil)

	sections, err := svc.ListByCourse(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)

	_, err = svc.ListByCourse(context.Background(), 0)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestContentServiceCreate(t *testing.T) {
	sections := &mockSectionRepo{items: map[int64]models.Section{3: {ID: 3}}}
	repo := &mockContentRepo{items: map[int64]models.Content{}}
	svc := NewContentService(repo, sections, nil, nil, nil)

	content, err := svc.Create(context.Background(), models.ContentDraft{Type: models.ContentVideo, URL: " https://videos.example.com/1 ", Section: models.SectionRef{ID: 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), content.ID)
	assert.Equal(t, "https://videos.example.com/1", content.URL)

	_, err = svc.Create(context.Background(), models.ContentDraft{Type: "AUDIO", URL: "https://x.example.com", Section: models.SectionRef{ID: 3}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), models.ContentDraft{Type: models.ContentPDF, URL: "not a url", Section: models.SectionRef{ID: 3}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), models.ContentDraft{Type: models.ContentPDF, URL: "https://x.example.com/a.pdf", Section: models.SectionRef{ID: 9}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestContentServiceDeleteOwnership(t *testing.T) {
	newRepo := func() *mockContentRepo {
		return &mockContentRepo{
			items:      map[int64]models.Content{5: {ID: 5, Type: models.ContentPDF}},
			instructor: map[int64]string{5: "Leo"},
		}
	}

	cases := []struct {
		name  string
		actor *session.Identity
		want  error
	}{
		{name: "instructor", actor: &session.Identity{Role: session.RoleTeacher, Name: "leo"}},
		{name: "other teacher", actor: &session.Identity{Role: session.RoleTeacher, Name: "Ana"}, want: appErrors.ErrForbidden},
		{name: "admin", actor: &session.Identity{Role: session.RoleAdmin, Name: "Root"}},
		{name: "anonymous", actor: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			svc := NewContentService(repo, &mockSectionRepo{}, nil, nil, nil)
			err := svc.Delete(context.Background(), 5, tc.actor)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				assert.Contains(t, repo.items, int64(5))
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, repo.items, int64(5))
		})
	}
}

func TestContentServiceDeleteMissing(t *testing.T) {
	repo := &mockContentRepo{items: map[int64]models.Content{}, instructor: map[int64]string{}}
	svc := NewContentService(repo, &mockSectionRepo{}, nil, nil, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 5, &session.Identity{Role: session.RoleTeacher, Name: "Leo"}), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 5, nil), appErrors.ErrNotFound)
}
