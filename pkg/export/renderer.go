package export

import (
	"errors"
	"fmt"
	"strings"
)

// Supported output formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ErrUnsupportedFormat is returned by ForFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Renderer turns a Dataset into file bytes.
type Renderer interface {
	Extension() string
	Render(data Dataset) ([]byte, error)
}

// ForFormat picks the renderer for format. weights only affect PDF output.
func ForFormat(format string, weights map[string]float64) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(weights), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
}

// ContentType returns the MIME type of a rendered file extension.
func ContentType(ext string) string {
	switch ext {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}
