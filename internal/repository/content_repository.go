package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal/internal/models"
)

type contentRow struct {
	ID        int64              `db:"content_id"`
	SectionID int64              `db:"section_id"`
	Type      models.ContentType `db:"content_type"`
	URL       string             `db:"content"`
}

func (r contentRow) model() models.Content {
	return models.Content{
		ID:      r.ID,
		Type:    r.Type,
		URL:     r.URL,
		Section: models.SectionRef{ID: r.SectionID},
	}
}

// ContentRepository handles persistence for section contents.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new repository instance.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListBySection returns the contents attached to a section.
func (r *ContentRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.Content, error) {
	const query = `SELECT content_id, section_id, content_type, content
		FROM contents WHERE section_id = $1 ORDER BY content_id ASC`
	var rows []contentRow
	if err := r.db.SelectContext(ctx, &rows, query, sectionID); err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	contents := make([]models.Content, 0, len(rows))
	for _, row := range rows {
		contents = append(contents, row.model())
	}
	return contents, nil
}

// Create inserts a content item and fills its id.
func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	const query = `INSERT INTO contents (section_id, content_type, content)
		VALUES ($1, $2, $3)
		RETURNING content_id`
	if err := r.db.QueryRowxContext(ctx, query, content.Section.ID, content.Type, content.URL).Scan(&content.ID); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Delete removes a content item.
func (r *ContentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE content_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return requireAffected(res)
}

// InstructorOf returns the instructor name of the course owning a content item.
func (r *ContentRepository) InstructorOf(ctx context.Context, id int64) (string, error) {
	const query = `SELECT c.instructor_name
		FROM contents ct
		JOIN sections s ON s.section_id = ct.section_id
		JOIN courses c ON c.course_id = s.course_id
		WHERE ct.content_id = $1`
	var name string
	if err := r.db.GetContext(ctx, &name, query, id); err != nil {
		return "", err
	}
	return name, nil
}
