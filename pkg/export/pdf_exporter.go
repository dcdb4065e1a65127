package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pdfContentWidth = 190.0

// PDFExporter renders documents into a simple tabular A4 PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension reports the file extension of rendered output.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with a title and one table per section.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	for _, section := range doc.Sections {
		if section.Title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, tr(section.Title), "", 1, "L", false, 0, "")
		}

		colWidth := pdfContentWidth / float64(len(section.Headers))
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 7, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range section.Rows {
			for _, value := range row {
				pdf.CellFormat(colWidth, 6, tr(value), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
