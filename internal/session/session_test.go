package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/config"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func TestIdentityGates(t *testing.T) {
	course := models.Course{InstructorName: "Leo"}

	teacher := Identity{Role: RoleTeacher, Name: "LEO"}
	assert.True(t, teacher.CanEdit())
	assert.True(t, teacher.CanDeleteContent(course))
	assert.True(t, teacher.CanViewReport())

	other := Identity{Role: RoleTeacher, Name: "Mia"}
	assert.True(t, other.CanEdit())
	assert.False(t, other.CanDeleteContent(course))

	admin := Identity{Role: RoleAdmin, Name: "Leo"}
	assert.True(t, admin.CanEdit())
	assert.False(t, admin.CanDeleteContent(course))

	student := Identity{Role: RoleStudent, Name: "Leo"}
	assert.False(t, student.CanEdit())
	assert.False(t, student.CanDeleteContent(course))
	assert.False(t, student.CanViewReport())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, ParseRole(" Teacher "))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleStudent, ParseRole("guest"))
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", "course-portal", time.Hour)
	raw, expires, err := tokens.Issue(Identity{Role: RoleTeacher, Name: "Leo", RollNumber: "T01"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, id.Role)
	assert.Equal(t, "Leo", id.Name)
	assert.Equal(t, "T01", id.RollNumber)
	assert.Equal(t, raw, id.Token)
}

func TestTokensRejectForeignAndExpired(t *testing.T) {
	raw, _, err := NewTokens("other", "course-portal", time.Hour).Issue(Identity{Role: RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokens("secret", "course-portal", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	expiring := NewTokens("secret", "course-portal", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expiring.Issue(Identity{Role: RoleStudent})
	require.NoError(t, err)
	_, err = NewTokens("secret", "course-portal", time.Minute).Parse(old)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestResolvePrefersTokenThenOverrides(t *testing.T) {
	tokens := NewTokens("secret", "course-portal", time.Hour)
	raw, _, err := tokens.Issue(Identity{Role: RoleTeacher, Name: "Leo"})
	require.NoError(t, err)

	cfg := &config.Config{Portal: config.PortalConfig{DefaultRole: "student", DefaultName: "Ana", Token: raw}}
	id, err := Resolve(cfg, Identity{})
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, id.Role)
	assert.Equal(t, "Leo", id.Name)
	assert.Equal(t, raw, id.Token)

	id, err = Resolve(cfg, Identity{RollNumber: "STU9"})
	require.NoError(t, err)
	assert.Equal(t, "STU9", id.RollNumber)

	cfg.Portal.Token = ""
	id, err = Resolve(cfg, Identity{})
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, id.Role)
	assert.Equal(t, "Ana", id.Name)
}

func TestResolveAcceptsTokenSignedElsewhere(t *testing.T) {
	raw, _, err := NewTokens("store-prod-secret", "course-store", time.Hour).Issue(Identity{Role: RoleAdmin, Name: "Ana"})
	require.NoError(t, err)

	cfg := &config.Config{Portal: config.PortalConfig{DefaultRole: "student", Token: raw}}
	id, err := Resolve(cfg, Identity{})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, id.Role)
	assert.Equal(t, "Ana", id.Name)
	assert.Equal(t, raw, id.Token)
}

func TestDecodeRejectsMalformedAndExpired(t *testing.T) {
	_, err := Decode("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	expiring := NewTokens("secret", "course-portal", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expiring.Issue(Identity{Role: RoleStudent})
	require.NoError(t, err)
	_, err = Decode(old)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
