package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/export"
	"github.com/noah-isme/course-portal/pkg/storage"
)

var reportFileSafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type linkSigner interface {
	Sign(filename string) (storage.SignedLink, error)
	Verify(token string) (storage.SignedLink, error)
}

// ProgressExport describes a rendered progress report and its download link.
type ProgressExport struct {
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReportDownload is a stored export ready to stream.
type ReportDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders progress reports to storage and serves them through
// signed, expiring links.
type ReportService struct {
	progress   progressRepository
	storage    reportStorage
	signer     linkSigner
	metrics    *MetricsService
	logger     *zap.Logger
	linkPrefix string
	now        func() time.Time
}

// NewReportService creates a report service. linkPrefix is prepended to
// download tokens, for example "/api/exports".
func NewReportService(progress progressRepository, store reportStorage, signer linkSigner, metrics *MetricsService, logger *zap.Logger, linkPrefix string) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		progress:   progress,
		storage:    store,
		signer:     signer,
		metrics:    metrics,
		logger:     logger,
		linkPrefix: strings.TrimRight(linkPrefix, "/"),
		now:        time.Now,
	}
}

// ExportProgress renders the progress report of courseID in format and returns
// a link to download it.
func (s *ReportService) ExportProgress(ctx context.Context, courseID, format string) (*ProgressExport, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	renderer, err := export.ForFormat(format, models.ProgressColumnWeights)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	done := s.metrics.timeQuery("progress.list")
	rows, err := s.progress.ListByCourse(ctx, courseID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student progress")
	}
	payload, err := renderer.Render(models.ProgressTable(courseID, rows))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render progress report")
	}

	filename := path.Join("progress", fmt.Sprintf("%s-%s.%s",
		reportFileSafe.ReplaceAllString(courseID, "_"), s.now().UTC().Format("20060102T150405"), renderer.Extension()))
	if _, err := s.storage.Save(filename, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store progress report")
	}
	link, err := s.signer.Sign(filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	s.metrics.CountMutation("progress_report", "export")
	s.logger.Info("progress report exported", zap.String("course_id", courseID), zap.String("file", filename))

	return &ProgressExport{
		URL:       s.linkPrefix + "/" + link.Token,
		Format:    renderer.Extension(),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// Download resolves a signed token to the stored report.
func (s *ReportService) Download(ctx context.Context, token string) (*ReportDownload, error) {
	link, err := s.signer.Verify(token)
	switch {
	case errors.Is(err, storage.ErrLinkExpired):
		return nil, appErrors.Clone(appErrors.ErrGone, "download link has expired")
	case err != nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download link is invalid")
	}
	data, err := s.storage.Read(link.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report file no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report")
	}
	return &ReportDownload{
		Filename:    path.Base(link.Filename),
		ContentType: export.ContentType(strings.TrimPrefix(path.Ext(link.Filename), ".")),
		Data:        data,
	}, nil
}
