package coursestore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/course-portal/internal/models"
)

// ListSections fetches the sections of a course. Stores that answer with a
// single object instead of an array yield a one-element list.
func (c *Client) ListSections(ctx context.Context, courseID int64) ([]models.Section, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.cfg.BaseURL,
		path:   "/api/course/section/details",
		query:  url.Values{"id": {strconv.FormatInt(courseID, 10)}},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Section](raw)
}

// CreateSection adds a section to a course.
func (c *Client) CreateSection(ctx context.Context, draft models.SectionDraft) (models.Section, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/course/section/add", draft)
	if err != nil {
		return models.Section{}, err
	}
	var created models.Section
	if _, err := c.do(ctx, req, &created); err != nil {
		return models.Section{}, err
	}
	return created, nil
}

// UpdateSection sends the full section payload.
func (c *Client) UpdateSection(ctx context.Context, section models.Section) (models.Section, error) {
	req, err := c.jsonRequest(http.MethodPut, "/api/course/section/update", section)
	if err != nil {
		return models.Section{}, err
	}
	var updated models.Section
	if _, err := c.do(ctx, req, &updated); err != nil {
		return models.Section{}, err
	}
	return updated, nil
}

// DeleteSection removes a section; the id travels as a text/plain body.
func (c *Client) DeleteSection(ctx context.Context, sectionID int64) error {
	_, err := c.do(ctx, textRequest(c.cfg.BaseURL, http.MethodDelete, "/api/course/section/delete", sectionID), nil)
	return err
}

// ListContents fetches the content attached to a section.
func (c *Client) ListContents(ctx context.Context, sectionID int64) ([]models.Content, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.cfg.BaseURL,
		path:   "/api/course/section/content/details",
		query:  url.Values{"id": {strconv.FormatInt(sectionID, 10)}},
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Content](raw)
}

// CreateContent attaches a video or document to a section.
func (c *Client) CreateContent(ctx context.Context, draft models.ContentDraft) (models.Content, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/course/section/content/add", draft)
	if err != nil {
		return models.Content{}, err
	}
	var created models.Content
	if _, err := c.do(ctx, req, &created); err != nil {
		return models.Content{}, err
	}
	return created, nil
}

// DeleteContent removes a content item; the id travels as a text/plain body.
func (c *Client) DeleteContent(ctx context.Context, contentID int64) error {
	_, err := c.do(ctx, textRequest(c.cfg.BaseURL, http.MethodDelete, "/api/course/section/content/delete", contentID), nil)
	return err
}
