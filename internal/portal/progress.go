package portal

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/export"
)

// Export formats for the progress report.
const (
	FormatCSV = export.FormatCSV
	FormatPDF = export.FormatPDF
)

var fileSafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Progress is the per-student progress report of one course.
type Progress struct {
	p        *Portal
	courseID string

	mu   sync.RWMutex
	rows []models.ProgressRecord
	err  error
	gen  uint64
	now  func() time.Time
}

func newProgress(p *Portal, courseID string) *Progress {
	return &Progress{p: p, courseID: courseID, now: time.Now}
}

// Load fetches the report.
func (r *Progress) Load(ctx context.Context) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	rows, err := r.p.store.StudentProgress(ctx, r.courseID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return nil
	}
	if err != nil {
		r.err = err
		return r.p.fail("load progress", err, zap.String("course_id", r.courseID))
	}
	r.rows = rows
	r.err = nil
	return nil
}

// Err returns the failure of the last applied Load.
func (r *Progress) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Report returns every student's row. It is reserved for staff.
func (r *Progress) Report() ([]models.ProgressRecord, error) {
	if !r.p.identity.CanViewReport() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "the progress report is available to teachers and admins")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ProgressRecord(nil), r.rows...), nil
}

// StudentPercentage returns the progress of rollNumber and whether a row exists.
// An empty roll number never matches.
func (r *Progress) StudentPercentage(rollNumber string) (float64, bool) {
	if rollNumber == "" {
		return 0, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.RollNumber == rollNumber {
			return row.ClampedPercentage(), true
		}
	}
	return 0, false
}

// Mine returns the current actor's own progress.
func (r *Progress) Mine() (float64, bool) {
	return r.StudentPercentage(r.p.identity.RollNumber)
}

// Empty reports whether the loaded report has no rows.
func (r *Progress) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows) == 0
}

// EmptyMessage is the no-data text for the current actor.
func (r *Progress) EmptyMessage() string {
	if r.p.identity.CanViewReport() {
		return "No student submissions have been recorded for this course yet."
	}
	return "Your progress report is not yet available. Please check back later."
}

// Dataset renders the report as an export table.
func (r *Progress) Dataset() (export.Dataset, error) {
	rows, err := r.Report()
	if err != nil {
		return export.Dataset{}, err
	}
	return models.ProgressTable(r.courseID, rows), nil
}

// Export writes the report as CSV or PDF to the exports directory and returns the file path.
func (r *Progress) Export(format string) (string, error) {
	if r.p.exports == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "export storage is not configured")
	}
	out, err := export.ForFormat(format, models.ProgressColumnWeights)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	data, err := r.Dataset()
	if err != nil {
		return "", err
	}
	payload, err := out.Render(data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render progress report")
	}
	name := fmt.Sprintf("progress/%s-%s.%s", fileSafe.ReplaceAllString(r.courseID, "_"), r.now().UTC().Format("20060102T150405"), out.Extension())
	path, err := r.p.exports.Save(name, payload)
	if err != nil {
		return "", r.p.fail("export progress", err, zap.String("course_id", r.courseID))
	}
	r.p.logger.Info("progress report exported", zap.String("course_id", r.courseID), zap.String("path", path))
	return path, nil
}
