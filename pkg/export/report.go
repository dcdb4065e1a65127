// Package export renders sectioned tabular documents to CSV and PDF.
package export

import "fmt"

// Section is one titled table of a document.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is an ordered list of sections under a title.
type Document struct {
	Title    string
	Sections []*Section
}

// AddSection appends a section and returns it for row appends.
func (d *Document) AddSection(title string, headers ...string) *Section {
	section := &Section{Title: title, Headers: headers}
	d.Sections = append(d.Sections, section)
	return section
}

// AddRow appends a row. Missing cells are padded and extra cells are rejected.
func (s *Section) AddRow(cells ...string) error {
	if len(cells) > len(s.Headers) {
		return fmt.Errorf("section %q: row has %d cells, expected %d", s.Title, len(cells), len(s.Headers))
	}
	row := make([]string, len(s.Headers))
	copy(row, cells)
	s.Rows = append(s.Rows, row)
	return nil
}

func (d Document) validate() error {
	if len(d.Sections) == 0 {
		return fmt.Errorf("document requires at least one section")
	}
	for _, section := range d.Sections {
		if section == nil {
			return fmt.Errorf("document contains a nil section")
		}
		if len(section.Headers) == 0 {
			return fmt.Errorf("section %q requires at least one header", section.Title)
		}
	}
	return nil
}
