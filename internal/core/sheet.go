package core

// sheet.go implements the editor state store.
//
// A Sheet owns the canonical dataset, the search term, the sort, the
// selection and the edit cursor, and keeps the projection consistent with
// all of them. Every mutating operation replaces slices and rows instead of
// writing into them, so a View handed out earlier is never affected by
// later operations.
//
// A Sheet is not safe for concurrent use; Session serializes access for the
// web frontend and the TUI owns its sheet outright.

import (
	"slices"

	"github.com/google/uuid"
)

// Sheet is the state of one editor.
type Sheet struct {
	columns    []Column
	rows       []Row
	projection []Row

	loaded     bool
	uploading  bool
	generation uint64
	search     string
	sort       SortConfig
	selected   map[string]struct{}
	editing    *EditCursor
}

// NewSheet returns an empty sheet in the upload state.
func NewSheet() *Sheet {
	return &Sheet{selected: make(map[string]struct{})}
}

// Load replaces the dataset and schema and clears every piece of transient
// state (search, sort, selection, edit cursor).
func (s *Sheet) Load(ds Dataset) {
	s.columns = slices.Clone(ds.Columns)
	s.rows = slices.Clone(ds.Rows)
	s.loaded = true
	s.clearTransient()
	s.reproject()
}

// Reset returns the sheet to the empty upload state. An import already in
// flight keeps the sheet marked uploading, but its result is discarded.
func (s *Sheet) Reset() {
	s.columns = nil
	s.rows = nil
	s.loaded = false
	s.generation++
	s.clearTransient()
	s.reproject()
}

func (s *Sheet) clearTransient() {
	s.search = ""
	s.sort = SortConfig{}
	s.selected = make(map[string]struct{})
	s.editing = nil
}

// AddRow appends a row with every schema column set to the empty string and
// returns it.
func (s *Sheet) AddRow() Row {
	cells := make(map[string]Value, len(s.columns))
	for _, c := range s.columns {
		cells[c.Key] = ""
	}
	row := Row{ID: uuid.NewString(), Cells: cells}

	s.rows = append(slices.Clip(s.rows), row)
	s.reproject()
	return row
}

// DeleteRows removes every canonical row matching pred and returns how many
// were removed. Removed rows are dropped from the selection, and the edit
// cursor is cleared if its row disappeared.
func (s *Sheet) DeleteRows(pred func(Row) bool) int {
	kept := make([]Row, 0, len(s.rows))
	removed := 0
	for _, r := range s.rows {
		if pred(r) {
			delete(s.selected, r.ID)
			if s.editing != nil && s.editing.RowID == r.ID {
				s.editing = nil
			}
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0
	}
	s.rows = kept
	s.reproject()
	return removed
}

// DeleteSelected deletes every selected row and empties the selection.
func (s *Sheet) DeleteSelected() int {
	selected := s.selected
	n := s.DeleteRows(func(r Row) bool {
		_, ok := selected[r.ID]
		return ok
	})
	s.selected = make(map[string]struct{})
	return n
}

// SetSearch sets the filter term and recomputes the projection.
func (s *Sheet) SetSearch(term string) {
	s.search = term
	s.reproject()
}

// ToggleSort applies a header click on column and returns the new sort.
func (s *Sheet) ToggleSort(column string) SortConfig {
	s.sort = NextSort(s.sort, column)
	s.reproject()
	return s.sort
}

// Toggle flips the selection of the row with the given id and reports
// whether it is selected afterwards. Unknown ids are ignored.
func (s *Sheet) Toggle(id string) bool {
	if _, ok := s.indexOf(id); !ok {
		return false
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// SelectAll selects every row of the current projection, or clears the
// selection when all is false.
func (s *Sheet) SelectAll(all bool) {
	s.selected = make(map[string]struct{}, len(s.projection))
	if !all {
		return
	}
	for _, r := range s.projection {
		s.selected[r.ID] = struct{}{}
	}
}

// BeginEdit puts the given cell in edit mode, abandoning any previous
// cursor. It returns ErrRowNotFound if the row does not exist.
func (s *Sheet) BeginEdit(rowID, column string) error {
	if _, ok := s.indexOf(rowID); !ok {
		return ErrRowNotFound
	}
	s.editing = &EditCursor{RowID: rowID, Column: column}
	return nil
}

// CommitEdit writes value into the given cell. The canonical row is replaced
// by an edited copy carrying the same id, then the projection is rebuilt so
// both views read the new value. It returns ErrRowNotFound if the row does
// not exist, leaving the dataset untouched.
func (s *Sheet) CommitEdit(rowID, column, value string) error {
	i, ok := s.indexOf(rowID)
	if !ok {
		return ErrRowNotFound
	}
	rows := slices.Clone(s.rows)
	rows[i] = rows[i].With(column, value)
	s.rows = rows
	s.reproject()
	return nil
}

// EndEdit leaves edit mode. It does not change any data.
func (s *Sheet) EndEdit() {
	s.editing = nil
}

// BeginImport marks an import as in flight and returns the ticket that
// EndImport needs. It fails with ErrImportInProgress while another import
// is running.
func (s *Sheet) BeginImport() (uint64, error) {
	if s.uploading {
		return 0, ErrImportInProgress
	}
	s.uploading = true
	return s.generation, nil
}

// EndImport clears the uploading mark and reports whether the import holding
// ticket may still load its result, which is false once the sheet has been
// reset in the meantime.
func (s *Sheet) EndImport(ticket uint64) bool {
	s.uploading = false
	return ticket == s.generation
}

// Uploading reports whether an import is in flight.
func (s *Sheet) Uploading() bool {
	return s.uploading
}

// Loaded reports whether a dataset is loaded.
func (s *Sheet) Loaded() bool {
	return s.loaded
}

// Columns returns the schema.
func (s *Sheet) Columns() []Column {
	return s.columns
}

// Rows returns the canonical dataset.
func (s *Sheet) Rows() []Row {
	return s.rows
}

// Projection returns the filtered and sorted rows currently displayed.
func (s *Sheet) Projection() []Row {
	return s.projection
}

// Row returns the canonical row with the given id.
func (s *Sheet) Row(id string) (Row, bool) {
	i, ok := s.indexOf(id)
	if !ok {
		return Row{}, false
	}
	return s.rows[i], true
}

// Search returns the active filter term.
func (s *Sheet) Search() string {
	return s.search
}

// Sort returns the active sort.
func (s *Sheet) Sort() SortConfig {
	return s.sort
}

// Editing returns the active edit cursor, or nil.
func (s *Sheet) Editing() *EditCursor {
	if s.editing == nil {
		return nil
	}
	c := *s.editing
	return &c
}

// SelectedIDs returns the selected row ids in dataset order.
func (s *Sheet) SelectedIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, r := range s.rows {
		if _, ok := s.selected[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// View returns an immutable snapshot for rendering.
func (s *Sheet) View() View {
	state := ViewUpload
	if s.loaded {
		state = ViewTable
	}
	return View{
		State:     state,
		Columns:   s.columns,
		Rows:      s.projection,
		Total:     len(s.rows),
		Search:    s.search,
		Sort:      s.sort,
		Selected:  s.SelectedIDs(),
		Editing:   s.Editing(),
		Uploading: s.uploading,
	}
}

func (s *Sheet) reproject() {
	s.projection = Project(s.rows, s.search, s.sort)
}

func (s *Sheet) indexOf(id string) (int, bool) {
	i := slices.IndexFunc(s.rows, func(r Row) bool { return r.ID == id })
	return i, i >= 0
}
