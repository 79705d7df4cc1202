package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
)

func TestAssignmentRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT assignment_id, course_id, title, description, created_at, fileno, resourcelink FROM assignments WHERE course_id").
		WithArgs("12").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "course_id", "title", "description", "created_at", "fileno", "resourcelink"}).
			AddRow("a1", "12", "Essay", "Write one", now, "F-1", "https://example.com/brief"))

	list, err := repo.ListByCourse(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
	assert.Equal(t, "F-1", list[0].FileNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "12", "Essay", "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{CourseID: "12", Title: "Essay"}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery("SELECT student_roll_number, student_name, student_department, progress_percentage, average_grade FROM student_progress").
		WithArgs("12").
		WillReturnRows(sqlmock.NewRows([]string{"student_roll_number", "student_name", "student_department", "progress_percentage", "average_grade"}).
			AddRow("STU1", "Bob", "CS", 72.5, "88.25").
			AddRow("STU2", "Cy", "IT", 10.0, nil).
			AddRow("STU3", "Di", "IT", 40.0, "A-"))

	records, err := repo.ListByCourse(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].Grade.Valid)
	assert.InDelta(t, 88.25, records[0].Grade.Value, 0.0001)
	assert.Equal(t, "-", records[1].Grade.String())
	assert.False(t, records[2].Grade.Valid)
	assert.Equal(t, "A-", records[2].Grade.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectExec("INSERT INTO student_progress").
		WithArgs("12", "STU1", "Bob", "CS", 50.0, "91.5").
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := models.ProgressRecord{RollNumber: "STU1", Name: "Bob", Department: "CS", Percentage: 50, Grade: models.ParseFlexFloat("91.5")}
	require.NoError(t, repo.Upsert(context.Background(), "12", record))
	assert.NoError(t, mock.ExpectationsWereMet())
}
