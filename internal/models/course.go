package models

import (
	"encoding/json"
	"strings"
)

// Course is a catalogue entry owned by the course store.
type Course struct {
	ID             int64     `db:"course_id" json:"course_id"`
	Title          string    `db:"course_title" json:"courseTitle" validate:"required,notblank,max=200"`
	Description    string    `db:"course_description" json:"courseDescription" validate:"required,notblank"`
	InstructorName string    `db:"instructor_name" json:"instructorName" validate:"max=120"`
	Dept           string    `db:"dept" json:"dept" validate:"max=60"`
	Duration       int       `db:"duration" json:"duration" validate:"gt=0"`
	Credit         int       `db:"credit" json:"credit" validate:"min=1,max=10"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedAt      Timestamp `db:"created_at" json:"createdAt"`
	UpdatedAt      Timestamp `db:"updated_at" json:"updatedAt"`

	// activeSet records that a decoded payload carried isActive.
	activeSet bool
}

// CourseDraft is the payload for creating a course.
type CourseDraft struct {
	Title          string `json:"courseTitle" validate:"required,notblank,max=200"`
	Description    string `json:"courseDescription" validate:"required,notblank"`
	InstructorName string `json:"instructorName" validate:"max=120"`
	Dept           string `json:"dept" validate:"max=60"`
	IsActive       bool   `json:"isActive"`
	Duration       int    `json:"duration" validate:"gt=0"`
	Credit         int    `json:"credit" validate:"min=1,max=10"`
}

// CourseRef is the back-reference a section carries to its course.
type CourseRef struct {
	ID int64 `json:"course_id" validate:"gt=0"`
}

// courseWire lists the canonical names plus the legacy ones older stores emit.
type courseWire struct {
	ID             FlexInt   `json:"course_id"`
	LegacyID       FlexInt   `json:"id"`
	Title          *string   `json:"courseTitle"`
	LegacyTitle    *string   `json:"title"`
	Description    *string   `json:"courseDescription"`
	LegacyDesc     *string   `json:"description"`
	InstructorName *string   `json:"instructorName"`
	LegacyAuthor   *string   `json:"author"`
	Dept           *string   `json:"dept"`
	LegacyCategory *string   `json:"category"`
	Duration       FlexInt   `json:"duration"`
	Credit         FlexInt   `json:"credit"`
	IsActive       *bool     `json:"isActive"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
}

// UnmarshalJSON accepts both canonical and legacy field names; canonical wins.
func (c *Course) UnmarshalJSON(data []byte) error {
	var w courseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Course{
		ID:             int64(w.ID.Or(w.LegacyID)),
		Title:          firstString(w.Title, w.LegacyTitle),
		Description:    firstString(w.Description, w.LegacyDesc),
		InstructorName: firstString(w.InstructorName, w.LegacyAuthor),
		Dept:           firstString(w.Dept, w.LegacyCategory),
		Duration:       int(w.Duration),
		Credit:         int(w.Credit),
		IsActive:       w.IsActive != nil && *w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
		activeSet:      w.IsActive != nil,
	}
	return nil
}

// UnmarshalJSON accepts legacy names on drafts too.
func (d *CourseDraft) UnmarshalJSON(data []byte) error {
	var c Course
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*d = DraftOf(c)
	return nil
}

// DraftOf extracts the writable fields of c.
func DraftOf(c Course) CourseDraft {
	return CourseDraft{
		Title:          c.Title,
		Description:    c.Description,
		InstructorName: c.InstructorName,
		Dept:           c.Dept,
		IsActive:       c.IsActive,
		Duration:       c.Duration,
		Credit:         c.Credit,
	}
}

// Apply copies the writable fields of d onto c.
func (d CourseDraft) Apply(c Course) Course {
	c.Title = d.Title
	c.Description = d.Description
	c.InstructorName = d.InstructorName
	c.Dept = d.Dept
	c.IsActive = d.IsActive
	c.Duration = d.Duration
	c.Credit = d.Credit
	return c
}

// Fill returns c with empty fields taken from fallback. Identity is never copied.
// IsActive is filled only when a decoded payload left it out.
func (c Course) Fill(fallback Course) Course {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = fallback.Title
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = fallback.Description
	}
	if c.InstructorName == "" {
		c.InstructorName = fallback.InstructorName
	}
	if c.Dept == "" {
		c.Dept = fallback.Dept
	}
	if c.Duration == 0 {
		c.Duration = fallback.Duration
	}
	if c.Credit == 0 {
		c.Credit = fallback.Credit
	}
	if !c.activeSet && !c.IsActive {
		c.IsActive = fallback.IsActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = fallback.CreatedAt
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = fallback.UpdatedAt
	}
	return c
}

// SameContent reports whether the user-visible fields of a and b match.
func (c Course) SameContent(other Course) bool {
	return DraftOf(c) == DraftOf(other)
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}
