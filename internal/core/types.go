// Package core provides the editing logic for tabular files.
// This package has no UI dependencies and can be used by any frontend.
package core

import "maps"

// Value is a single cell value: string, float64, bool, or nil.
type Value = any

// ColumnTypeText is the only column type the editor renders.
const ColumnTypeText = "text"

// Column describes one column of the sheet schema.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Row is one record of the dataset.
//
// ID is assigned at import time and never changes, even when the row is
// replaced by an edit. Cells is shared between snapshots and must not be
// mutated; use With to derive an edited copy.
type Row struct {
	ID    string           `json:"id"`
	Cells map[string]Value `json:"cells"`
}

// Get returns the value stored under key, or nil when the row lacks it.
func (r Row) Get(key string) Value {
	return r.Cells[key]
}

// With returns a copy of the row with key set to v.
func (r Row) With(key string, v Value) Row {
	cells := make(map[string]Value, len(r.Cells)+1)
	maps.Copy(cells, r.Cells)
	cells[key] = v
	return Row{ID: r.ID, Cells: cells}
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortConfig is the active column sort. The zero value means unsorted.
type SortConfig struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// IsZero reports whether no sort is active.
func (c SortConfig) IsZero() bool {
	return c.Column == ""
}

// EditCursor identifies the single cell in edit mode.
type EditCursor struct {
	RowID  string `json:"rowId"`
	Column string `json:"column"`
}

// ViewState is the coarse screen the editor shows.
type ViewState string

const (
	ViewUpload ViewState = "upload"
	ViewTable  ViewState = "table"
)

// Dataset is a parsed file: the schema plus the canonical rows.
type Dataset struct {
	Columns []Column
	Rows    []Row
}

// Record is one parsed row before it has been given an identity.
// Keys keeps the source order of the fields.
type Record struct {
	Keys   []string
	Values map[string]Value
}

// View is an immutable snapshot of a sheet, suitable for rendering.
type View struct {
	State     ViewState   `json:"state"`
	Columns   []Column    `json:"columns"`
	Rows      []Row       `json:"rows"`
	Total     int         `json:"total"`
	Search    string      `json:"search"`
	Sort      SortConfig  `json:"sort"`
	Selected  []string    `json:"selected"`
	Editing   *EditCursor `json:"editing,omitempty"`
	Uploading bool        `json:"uploading"`
}

// IsSelected reports whether the row with the given id is selected.
func (v View) IsSelected(id string) bool {
	for _, s := range v.Selected {
		if s == id {
			return true
		}
	}
	return false
}

// IsEditing reports whether the given cell is the active edit cursor.
func (v View) IsEditing(rowID, column string) bool {
	return v.Editing != nil && v.Editing.RowID == rowID && v.Editing.Column == column
}

// AllSelected reports whether every visible row is selected.
func (v View) AllSelected() bool {
	if len(v.Rows) == 0 {
		return false
	}
	for _, r := range v.Rows {
		if !v.IsSelected(r.ID) {
			return false
		}
	}
	return true
}
