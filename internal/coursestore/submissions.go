package coursestore

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/course-portal/internal/models"
)

// ListAssignments fetches the assignments the service associates with courseID.
// The result is not filtered; callers decide how strictly to match.
func (c *Client) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var out models.AssignmentList
	_, err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.cfg.AssignmentsURL,
		path:   "/api/assignments/course",
		query:  url.Values{"courseId": {courseID}},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Assignments == nil {
		out.Assignments = []models.Assignment{}
	}
	return out.Assignments, nil
}

// StudentProgress fetches the per-student progress report of a course.
func (c *Client) StudentProgress(ctx context.Context, courseID string) ([]models.ProgressRecord, error) {
	var out models.ProgressReport
	_, err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.cfg.AssignmentsURL,
		path:   "/api/submissions/courses/" + url.PathEscape(courseID) + "/student-progress",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Students == nil {
		out.Students = []models.ProgressRecord{}
	}
	return out.Students, nil
}
