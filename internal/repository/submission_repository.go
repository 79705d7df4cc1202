package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal/internal/models"
)

// AssignmentRepository handles persistence for course assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new repository instance.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByCourse returns the assignments whose course id equals courseID exactly.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	const query = `SELECT assignment_id, course_id, title, description, created_at, fileno, resourcelink
		FROM assignments WHERE course_id = $1 ORDER BY created_at ASC, assignment_id ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// Create inserts an assignment, generating its id when blank.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = assignment.CreatedAt.OrNow()
	const query = `INSERT INTO assignments (assignment_id, course_id, title, description, fileno, resourcelink, created_at)
		VALUES (:assignment_id, :course_id, :title, :description, :fileno, :resourcelink, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

type progressRow struct {
	RollNumber string         `db:"student_roll_number"`
	Name       string         `db:"student_name"`
	Department string         `db:"student_department"`
	Percentage float64        `db:"progress_percentage"`
	Grade      sql.NullString `db:"average_grade"`
}

// ProgressRepository handles persistence for per-student course progress.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListByCourse returns the progress rows recorded for a course.
func (r *ProgressRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ProgressRecord, error) {
	const query = `SELECT student_roll_number, student_name, student_department, progress_percentage, average_grade
		FROM student_progress WHERE course_id = $1 ORDER BY student_roll_number ASC`
	var rows []progressRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list student progress: %w", err)
	}
	records := make([]models.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		record := models.ProgressRecord{
			RollNumber: row.RollNumber,
			Name:       row.Name,
			Department: row.Department,
			Percentage: row.Percentage,
		}
		if row.Grade.Valid {
			record.Grade = models.ParseFlexFloat(row.Grade.String)
		}
		records = append(records, record)
	}
	return records, nil
}

// Upsert records a student's progress for a course.
func (r *ProgressRepository) Upsert(ctx context.Context, courseID string, record models.ProgressRecord) error {
	const query = `INSERT INTO student_progress (course_id, student_roll_number, student_name, student_department, progress_percentage, average_grade)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id, student_roll_number) DO UPDATE SET
			student_name = EXCLUDED.student_name,
			student_department = EXCLUDED.student_department,
			progress_percentage = EXCLUDED.progress_percentage,
			average_grade = EXCLUDED.average_grade,
			updated_at = NOW()`
	var grade sql.NullString
	if record.Grade.Valid || record.Grade.Raw != "" {
		grade = sql.NullString{String: record.Grade.String(), Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, courseID, record.RollNumber, record.Name, record.Department, record.Percentage, grade); err != nil {
		return fmt.Errorf("upsert student progress: %w", err)
	}
	return nil
}
