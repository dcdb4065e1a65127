package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders documents into CSV bytes. Sections are separated by a
// blank line and introduced by a single-cell title row.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *CSVExporter) ContentType() string { return "text/csv" }

// Extension reports the file extension of rendered output.
func (e *CSVExporter) Extension() string { return "csv" }

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, section := range doc.Sections {
		if i > 0 {
			writer.Flush()
			buf.WriteByte('\n')
		}
		if section.Title != "" {
			if err := writer.Write([]string{section.Title}); err != nil {
				return nil, fmt.Errorf("write csv title: %w", err)
			}
		}
		if err := writer.Write(section.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range section.Rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
