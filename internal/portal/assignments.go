package portal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
)

// Assignments lists the assignments of one course.
type Assignments struct {
	p        *Portal
	courseID string

	mu    sync.RWMutex
	items []models.Assignment
	err   error
	gen   uint64
}

func newAssignments(p *Portal, courseID string) *Assignments {
	return &Assignments{p: p, courseID: courseID}
}

// MatchCourse keeps assignments whose course id equals courseID exactly; a
// prefix such as "EC01" does not match "EC010".
func MatchCourse(list []models.Assignment, courseID string) []models.Assignment {
	out := make([]models.Assignment, 0, len(list))
	for _, a := range list {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}

// Load fetches the course's assignments.
func (a *Assignments) Load(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	list, err := a.p.store.ListAssignments(ctx, a.courseID)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return nil
	}
	if err != nil {
		a.err = err
		return a.p.fail("load assignments", err, zap.String("course_id", a.courseID))
	}
	a.items = MatchCourse(list, a.courseID)
	a.err = nil
	return nil
}

// Items returns the loaded assignments.
func (a *Assignments) Items() []models.Assignment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.Assignment(nil), a.items...)
}

// Err returns the failure of the last applied Load.
func (a *Assignments) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Submit records the intent to submit an assignment. Submission is not offered
// by the store, so nothing is sent.
func (a *Assignments) Submit(assignmentID string) {
	a.p.logger.Info("assignment submission requested",
		zap.String("course_id", a.courseID),
		zap.String("assignment_id", assignmentID),
		zap.String("roll_number", a.p.identity.RollNumber),
	)
}
