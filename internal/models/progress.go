package models

import (
	"strconv"

	"github.com/noah-isme/course-portal/pkg/export"
)

// ProgressHeaders are the columns of an exported progress report.
var ProgressHeaders = []string{"S.No", "Roll No", "Name", "Department", "Progress (%)", "Average Grade"}

// ProgressColumnWeights widens the text columns of the PDF report.
var ProgressColumnWeights = map[string]float64{"S.No": 0.6, "Name": 2, "Department": 1.4}

// ProgressRecord is one student's standing in a course.
type ProgressRecord struct {
	RollNumber string    `db:"student_roll_number" json:"studentRollNumber"`
	Name       string    `db:"student_name" json:"studentName"`
	Department string    `db:"student_department" json:"studentDepartment"`
	Percentage float64   `db:"progress_percentage" json:"progressPercentage"`
	Grade      FlexFloat `db:"-" json:"averageGrade"`
}

// ClampedPercentage bounds Percentage to 0..100.
func (p ProgressRecord) ClampedPercentage() float64 {
	switch {
	case p.Percentage < 0:
		return 0
	case p.Percentage > 100:
		return 100
	}
	return p.Percentage
}

// ProgressReport is the envelope of the student progress endpoint.
type ProgressReport struct {
	Students []ProgressRecord `json:"students"`
}

// ProgressTable renders rows as the export table of courseID.
func ProgressTable(courseID string, rows []ProgressRecord) export.Dataset {
	data := export.Dataset{
		Title:   "Student progress - course " + courseID,
		Headers: ProgressHeaders,
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for i, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"S.No":          strconv.Itoa(i + 1),
			"Roll No":       row.RollNumber,
			"Name":          row.Name,
			"Department":    row.Department,
			"Progress (%)":  strconv.FormatFloat(row.ClampedPercentage(), 'f', 1, 64),
			"Average Grade": row.Grade.String(),
		})
	}
	return data
}
