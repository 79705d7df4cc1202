package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

// RequireRoles lets the request through only when the caller holds one of roles.
// It must run after JWT.
func RequireRoles(roles ...session.Role) gin.HandlerFunc {
	allowed := make(map[session.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[identity.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "this action requires a teacher or admin role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Staff is the role set allowed to change the catalogue.
var Staff = []session.Role{session.RoleTeacher, session.RoleAdmin}
