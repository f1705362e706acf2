package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportFileName is the name offered for downloaded exports.
const ExportFileName = "data-export.csv"

// WriteCSV writes a header of column keys followed by one record per row.
// Cells are rendered with Display; keys a row lacks are written empty.
func WriteCSV(w io.Writer, columns []Column, rows []Row) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			record[i] = Display(r.Get(c.Key))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the sheet's current projection as CSV. Only the visible,
// filtered and sorted rows are exported.
func (s *Sheet) ExportCSV(w io.Writer) error {
	return WriteCSV(w, s.columns, s.projection)
}
