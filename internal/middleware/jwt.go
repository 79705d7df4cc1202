package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/session"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

// ContextUserKey is the gin context key storing the caller's identity.
const ContextUserKey = "currentUser"

// TokenParser turns a bearer token into an identity.
type TokenParser interface {
	Parse(raw string) (session.Identity, error)
}

// JWT protects routes by requiring a valid bearer token.
func JWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or malformed authorization header"))
			c.Abort()
			return
		}

		identity, err := tokens.Parse(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, &identity)
		c.Next()
	}
}

// OptionalJWT attaches the identity when a valid token is present but does not block.
func OptionalJWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if identity, err := tokens.Parse(raw); err == nil {
				c.Set(ContextUserKey, &identity)
			}
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by JWT or OptionalJWT, if any.
func CurrentIdentity(c *gin.Context) *session.Identity {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*session.Identity)
	return identity
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
