package portal

import "github.com/noah-isme/course-portal/internal/models"

// edit is one confirmed change to a loaded list.
type edit[T any] struct {
	seq   uint64
	apply func([]T) []T
}

// replayLog keeps the edits confirmed while list fetches are in flight. A fetch
// that finishes replays the edits confirmed after it started, so a response
// that raced a mutation still carries the mutation. Edits must be idempotent:
// the fetched list may already contain them. Callers hold the view's lock.
type replayLog[T any] struct {
	seq      uint64
	inflight int
	edits    []edit[T]
}

// begin marks a fetch as started and returns the position it replays from.
func (r *replayLog[T]) begin() uint64 {
	r.inflight++
	return r.seq
}

// record applies fn to list and keeps it for fetches still in flight.
func (r *replayLog[T]) record(list []T, fn func([]T) []T) []T {
	r.seq++
	if r.inflight > 0 {
		r.edits = append(r.edits, edit[T]{seq: r.seq, apply: fn})
	}
	return fn(list)
}

// finish replays the edits confirmed after since onto fetched.
func (r *replayLog[T]) finish(since uint64, fetched []T) []T {
	for _, e := range r.edits {
		if e.seq > since {
			fetched = e.apply(fetched)
		}
	}
	r.end()
	return fetched
}

// end marks a fetch as done without applying its result.
func (r *replayLog[T]) end() {
	if r.inflight > 0 {
		r.inflight--
	}
	if r.inflight == 0 {
		r.edits = nil
	}
}

func prependCourse(course models.Course) func([]models.Course) []models.Course {
	return func(list []models.Course) []models.Course {
		for _, existing := range list {
			if course.ID != 0 && existing.ID == course.ID {
				return list
			}
		}
		return append([]models.Course{course}, list...)
	}
}

func dropCourse(courseID int64) func([]models.Course) []models.Course {
	return func(list []models.Course) []models.Course {
		kept := make([]models.Course, 0, len(list))
		for _, existing := range list {
			if existing.ID != courseID {
				kept = append(kept, existing)
			}
		}
		return kept
	}
}

func appendSection(section models.Section) func([]models.Section) []models.Section {
	return func(list []models.Section) []models.Section {
		for _, existing := range list {
			if existing.ID == section.ID {
				return list
			}
		}
		return append(append([]models.Section(nil), list...), section)
	}
}

func replaceSection(section models.Section) func([]models.Section) []models.Section {
	return func(list []models.Section) []models.Section {
		out := append([]models.Section(nil), list...)
		for i := range out {
			if out[i].ID == section.ID {
				out[i] = section
			}
		}
		return out
	}
}

func dropSection(sectionID int64) func([]models.Section) []models.Section {
	return func(list []models.Section) []models.Section {
		kept := make([]models.Section, 0, len(list))
		for _, s := range list {
			if s.ID != sectionID {
				kept = append(kept, s)
			}
		}
		return kept
	}
}
