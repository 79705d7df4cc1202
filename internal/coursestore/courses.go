package coursestore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/course-portal/internal/models"
)

// ListCourses fetches the full catalogue.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, base: c.cfg.BaseURL, path: "/api/course/details"}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Course](raw)
}

// CreateCourse submits a new course. The returned course may be partial when the
// store echoes fewer fields than it stored.
func (c *Client) CreateCourse(ctx context.Context, draft models.CourseDraft) (models.Course, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/course/add", draft)
	if err != nil {
		return models.Course{}, err
	}
	var created models.Course
	if _, err := c.do(ctx, req, &created); err != nil {
		return models.Course{}, err
	}
	return created, nil
}

// UpdateCourse sends the full course payload.
func (c *Client) UpdateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	req, err := c.jsonRequest(http.MethodPut, "/api/course/update", course)
	if err != nil {
		return models.Course{}, err
	}
	var updated models.Course
	if _, err := c.do(ctx, req, &updated); err != nil {
		return models.Course{}, err
	}
	return updated, nil
}

// DeleteCourse removes a course by id.
func (c *Client) DeleteCourse(ctx context.Context, courseID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		base:   c.cfg.BaseURL,
		path:   "/api/course/delete",
		query:  url.Values{"course_id": {strconv.FormatInt(courseID, 10)}},
	}, nil)
	return err
}
