package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal/internal/models"
)

const courseColumns = "course_id, course_title, course_description, instructor_name, dept, duration, credit, is_active, created_at, updated_at"

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY created_at DESC, course_id DESC", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE course_id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a course and fills its generated columns.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `INSERT INTO courses (course_title, course_description, instructor_name, dept, duration, credit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING course_id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		course.Title, course.Description, course.InstructorName, course.Dept,
		course.Duration, course.Credit, course.IsActive)
	if err := row.Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites the writable columns of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `UPDATE courses SET course_title = $1, course_description = $2, instructor_name = $3, dept = $4,
		duration = $5, credit = $6, is_active = $7, updated_at = NOW()
		WHERE course_id = $8
		RETURNING created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		course.Title, course.Description, course.InstructorName, course.Dept,
		course.Duration, course.Credit, course.IsActive, course.ID)
	if err := row.Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course; its sections and contents cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
