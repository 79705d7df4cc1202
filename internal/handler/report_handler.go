package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/pkg/response"
)

type reportService interface {
	ExportProgress(ctx context.Context, courseID, format string) (*service.ProgressExport, error)
	Download(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exports progress reports and serves their download links.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// ExportProgress godoc
// @Summary Export the student progress report
// @Tags Reports
// @Produce json
// @Param courseId path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 201 {object} service.ProgressExport
// @Router /submissions/courses/{courseId}/student-progress/export [post]
func (h *ReportHandler) ExportProgress(c *gin.Context) {
	result, err := h.service.ExportProgress(c.Request.Context(), c.Param("courseId"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported report
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
