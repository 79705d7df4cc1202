package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal/internal/models"
)

// sectionRow flattens the nested course reference for scanning.
type sectionRow struct {
	ID          int64            `db:"section_id"`
	CourseID    int64            `db:"course_id"`
	Title       string           `db:"section_title"`
	Description string           `db:"section_desc"`
	CreatedAt   models.Timestamp `db:"created_at"`
	UpdatedAt   models.Timestamp `db:"updated_at"`
}

func (r sectionRow) model() models.Section {
	return models.Section{
		ID:          r.ID,
		Course:      models.CourseRef{ID: r.CourseID},
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// SectionRepository handles persistence for course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new repository instance.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListByCourse returns the sections of a course in creation order.
func (r *SectionRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Section, error) {
	const query = `SELECT section_id, course_id, section_title, section_desc, created_at, updated_at
		FROM sections WHERE course_id = $1 ORDER BY section_id ASC`
	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	sections := make([]models.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, row.model())
	}
	return sections, nil
}

// FindByID fetches a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT section_id, course_id, section_title, section_desc, created_at, updated_at
		FROM sections WHERE section_id = $1`
	var row sectionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	section := row.model()
	return &section, nil
}

// Create inserts a section and fills its generated columns.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO sections (course_id, section_title, section_desc)
		VALUES ($1, $2, $3)
		RETURNING section_id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, section.Course.ID, section.Title, section.Description)
	if err := row.Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update overwrites the title and description of a section.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	const query = `UPDATE sections SET section_title = $1, section_desc = $2, updated_at = NOW()
		WHERE section_id = $3
		RETURNING course_id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, section.Title, section.Description, section.ID)
	if err := row.Scan(&section.Course.ID, &section.CreatedAt, &section.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section; its contents cascade.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE section_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return requireAffected(res)
}
