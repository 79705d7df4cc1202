package session

import (
	"strings"

	"github.com/noah-isme/course-portal/internal/models"
)

// Role is the actor's standing in the portal.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole lowercases raw and falls back to student for unknown values.
func ParseRole(raw string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleTeacher, RoleAdmin:
		return r
	default:
		return RoleStudent
	}
}

// Identity is the current actor. It is passed by value into every view; there is
// no process-wide holder.
type Identity struct {
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number,omitempty"`
	// Token is forwarded to the course store as a bearer credential when set.
	Token      string `json:"-"`
}

// CanEdit gates course, section and content mutations.
func (i Identity) CanEdit() bool {
	return i.Role == RoleTeacher || i.Role == RoleAdmin
}

// CanDeleteContent additionally requires the course's own instructor.
func (i Identity) CanDeleteContent(course models.Course) bool {
	return i.Role == RoleTeacher && i.Name != "" && strings.EqualFold(strings.TrimSpace(i.Name), strings.TrimSpace(course.InstructorName))
}

// CanViewReport gates the class-wide progress report.
func (i Identity) CanViewReport() bool {
	return i.Role == RoleTeacher || i.Role == RoleAdmin
}

// AlwaysEnrolled is true for staff, who see every course as enrolled.
func (i Identity) AlwaysEnrolled() bool {
	return i.CanEdit()
}
