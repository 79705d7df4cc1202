package models

import (
	"encoding/json"
	"fmt"
)

// ContentType enumerates attachable section content.
type ContentType string

const (
	ContentVideo ContentType = "VIDEO"
	ContentPDF   ContentType = "PDF"
)

// ParseContentType normalises user input into a ContentType.
func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(upper(raw)) {
	case ContentVideo:
		return ContentVideo, nil
	case ContentPDF:
		return ContentPDF, nil
	}
	return "", fmt.Errorf("content type must be VIDEO or PDF, got %q", raw)
}

// Section groups content inside a course.
type Section struct {
	ID          int64     `db:"section_id" json:"section_id"`
	Course      CourseRef `json:"course"`
	Title       string    `db:"section_title" json:"sectionTitle" validate:"required,notblank,max=200"`
	Description string    `db:"section_desc" json:"sectionDesc"`
	CreatedAt   Timestamp `db:"created_at" json:"createdAt"`
	UpdatedAt   Timestamp `db:"updated_at" json:"updatedAt"`
}

// SectionDraft is the payload for creating a section.
type SectionDraft struct {
	Title       string    `json:"sectionTitle" validate:"required,notblank,max=200"`
	Description string    `json:"sectionDesc"`
	Course      CourseRef `json:"course"`
}

type courseRefWire struct {
	ID       FlexInt `json:"course_id"`
	LegacyID FlexInt `json:"id"`
}

type sectionWire struct {
	ID          FlexInt        `json:"section_id"`
	LegacyID    FlexInt        `json:"id"`
	Course      *courseRefWire `json:"course"`
	CourseID    FlexInt        `json:"course_id"`
	Title       string         `json:"sectionTitle"`
	Description string         `json:"sectionDesc"`
	CreatedAt   Timestamp      `json:"createdAt"`
	UpdatedAt   Timestamp      `json:"updatedAt"`
}

// UnmarshalJSON accepts `id` for the identity and a flat `course_id` reference.
func (s *Section) UnmarshalJSON(data []byte) error {
	var w sectionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	courseID := w.CourseID
	if w.Course != nil {
		courseID = w.Course.ID.Or(w.Course.LegacyID).Or(courseID)
	}
	*s = Section{
		ID:          int64(w.ID.Or(w.LegacyID)),
		Course:      CourseRef{ID: int64(courseID)},
		Title:       w.Title,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	return nil
}

// SectionRef is the back-reference a content item carries to its section.
type SectionRef struct {
	ID int64 `json:"section_id" validate:"gt=0"`
}

// Content is a video or document link attached to a section.
type Content struct {
	ID      int64       `db:"content_id" json:"content_id"`
	Type    ContentType `db:"content_type" json:"contentType" validate:"required,oneof=VIDEO PDF"`
	URL     string      `db:"content" json:"content" validate:"required,url"`
	Section SectionRef  `json:"section"`
}

// ContentDraft is the payload for attaching content.
type ContentDraft struct {
	Type    ContentType `json:"contentType" validate:"required,oneof=VIDEO PDF"`
	URL     string      `json:"content" validate:"required,url"`
	Section SectionRef  `json:"section"`
}

type sectionRefWire struct {
	ID       FlexInt `json:"section_id"`
	LegacyID FlexInt `json:"id"`
}

type contentWire struct {
	ID        FlexInt         `json:"content_id"`
	LegacyID  FlexInt         `json:"id"`
	Type      string          `json:"contentType"`
	URL       *string         `json:"content"`
	LegacyURL *string         `json:"contentUrl"`
	Section   *sectionRefWire `json:"section"`
	SectionID FlexInt         `json:"section_id"`
}

// UnmarshalJSON accepts `contentUrl` and `id` as legacy names.
func (c *Content) UnmarshalJSON(data []byte) error {
	var w contentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sectionID := w.SectionID
	if w.Section != nil {
		sectionID = w.Section.ID.Or(w.Section.LegacyID).Or(sectionID)
	}
	*c = Content{
		ID:      int64(w.ID.Or(w.LegacyID)),
		Type:    ContentType(upper(w.Type)),
		URL:     firstString(w.URL, w.LegacyURL),
		Section: SectionRef{ID: int64(sectionID)},
	}
	return nil
}
