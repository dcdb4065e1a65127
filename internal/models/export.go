package models

import "strings"

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ParseReportFormat normalises a user supplied format. Empty input selects CSV.
func ParseReportFormat(raw string) (ReportFormat, bool) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReportFormatCSV:
		return ReportFormatCSV, true
	case ReportFormatPDF:
		return ReportFormatPDF, true
	default:
		return "", false
	}
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
