package handler

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

const maxIDBodyBytes = 256

// parseID reads a positive numeric identifier.
func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

// readIDBody reads the identifier delete endpoints receive as a text/plain body.
// A JSON number, a quoted number or {"id": n} are accepted as well.
func readIDBody(c *gin.Context, name string) (int64, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIDBodyBytes))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read request body")
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "{") {
		var body struct {
			ID json.Number `json:"id"`
		}
		if json.Unmarshal([]byte(text), &body) == nil {
			text = body.ID.String()
		}
	}
	return parseID(strings.Trim(text, `"`), name)
}

func identityFromContext(c *gin.Context) *session.Identity {
	return middleware.CurrentIdentity(c)
}

func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload")
	}
	return nil
}
