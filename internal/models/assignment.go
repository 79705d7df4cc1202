package models

import (
	"encoding/json"
	"strings"
)

// Assignment is course work published by the assignments service.
type Assignment struct {
	ID           string    `db:"assignment_id" json:"assignment_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    Timestamp `db:"created_at" json:"createdAt"`
	FileNo       string    `db:"fileno" json:"fileno,omitempty"`
	ResourceLink string    `db:"resourcelink" json:"resourcelink,omitempty"`
}

type assignmentWire struct {
	ID             FlexString  `json:"assignment_id"`
	LegacyID       FlexString  `json:"id"`
	CourseID       *FlexString `json:"course_id"`
	LegacyCourseID *FlexString `json:"courseId"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	CreatedAt      Timestamp   `json:"createdAt"`
	FileNo         FlexString  `json:"fileno"`
	ResourceLink   string      `json:"resourcelink"`
}

// UnmarshalJSON accepts string or numeric identifiers and the `courseId` name.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var w assignmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := string(w.ID)
	if id == "" {
		id = string(w.LegacyID)
	}
	courseID := ""
	switch {
	case w.CourseID != nil:
		courseID = string(*w.CourseID)
	case w.LegacyCourseID != nil:
		courseID = string(*w.LegacyCourseID)
	}
	*a = Assignment{
		ID:           id,
		CourseID:     courseID,
		Title:        w.Title,
		Description:  w.Description,
		CreatedAt:    w.CreatedAt,
		FileNo:       string(w.FileNo),
		ResourceLink: strings.TrimSpace(w.ResourceLink),
	}
	return nil
}

// AssignmentList is the envelope of the course assignments endpoint.
type AssignmentList struct {
	Assignments []Assignment `json:"assignments"`
	Message     string       `json:"message,omitempty"`
}
