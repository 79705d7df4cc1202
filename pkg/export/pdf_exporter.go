package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders a Dataset as a single-table A4 document.
type PDFExporter struct {
	// Weights sets relative column widths by header; unlisted headers weigh 1.
	Weights map[string]float64
	now     func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(weights map[string]float64) *PDFExporter {
	return &PDFExporter{Weights: weights, now: time.Now}
}

// Extension returns the file extension for PDF output.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates the document with the dataset title as heading.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - page %d", e.now().Format("2006-01-02 15:04"), pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := e.columnWidths(data.Headers)
	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		if pdf.GetY()+7 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 7, row[h], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(headers []string) []float64 {
	total := 0.0
	weights := make([]float64, len(headers))
	for i, h := range headers {
		w := 1.0
		if v, ok := e.Weights[h]; ok && v > 0 {
			w = v
		}
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] = pageWidth * weights[i] / total
	}
	return weights
}
