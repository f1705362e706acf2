// Package tui is the terminal frontend of the editor: a bubbletea program
// that owns a single core.Sheet.
//
// The model is the only goroutine that touches the sheet. File reads and
// writes run as commands and report back with messages, so parsing a large
// file does not block input handling.
package tui

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

type mode int

const (
	modeTable mode = iota
	modeEdit
	modeSearch
	modeOpen
)

// Options configures a Model.
type Options struct {
	// Path is opened on start. Empty starts at the open prompt.
	Path string

	// ExportDir receives data-export.csv. Empty means the working directory.
	ExportDir string

	// MaxFileSize limits opened files. Zero selects core.DefaultMaxFileSize.
	MaxFileSize int64
}

// Model is the bubbletea model of the editor.
type Model struct {
	sheet *core.Sheet
	opts  Options

	mode  mode
	input textinput.Model

	// cursor position within the projection and the column list
	row, col int
	// first projected row drawn
	offset int

	// search term restored when search mode is cancelled
	prevSearch string

	source string
	status string
	err    error

	width, height int
}

// fileLoadedMsg carries the result of reading and parsing a file.
type fileLoadedMsg struct {
	path   string
	ticket uint64
	ds     core.Dataset
	err    error
}

// exportedMsg reports a finished export.
type exportedMsg struct {
	path string
	rows int
	err  error
}

// New returns a model over sheet.
func New(sheet *core.Sheet, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4096

	m := Model{
		sheet: sheet,
		opts:  opts,
		input: ti,
	}
	if !sheet.Loaded() && opts.Path == "" {
		m.enterOpen()
	}
	return m
}

// Sheet returns the sheet the model edits.
func (m Model) Sheet() *core.Sheet {
	return m.sheet
}

func (m Model) Init() tea.Cmd {
	if m.opts.Path != "" {
		ticket, err := m.sheet.BeginImport()
		if err != nil {
			return nil
		}
		return loadFile(m.opts.Path, m.opts.MaxFileSize, ticket)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		m.scroll()
		return m, nil

	case fileLoadedMsg:
		return m.fileLoaded(msg), nil

	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
			slog.Warn("export failed", "path", msg.path, "error", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("exported %d rows to %s", msg.rows, msg.path)
		slog.Info("exported sheet", "path", msg.path, "rows", msg.rows)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeOpen:
			return m.updateOpen(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

// --- table mode ---

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.sheet.Loaded() {
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	m.status = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.row--
	case key.Matches(msg, keys.Down):
		m.row++
	case key.Matches(msg, keys.Left):
		m.col--
	case key.Matches(msg, keys.Right):
		m.col++
	case key.Matches(msg, keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, keys.Search):
		m.enterSearch()
		return m, textinput.Blink
	case key.Matches(msg, keys.Sort):
		if c, ok := m.currentColumn(); ok {
			cfg := m.sheet.ToggleSort(c.Key)
			m.status = fmt.Sprintf("sorted by %s %s", cfg.Column, cfg.Direction)
		}
	case key.Matches(msg, keys.Select):
		if r, ok := m.currentRow(); ok {
			m.sheet.Toggle(r.ID)
		}
	case key.Matches(msg, keys.SelectAll):
		m.sheet.SelectAll(!m.sheet.View().AllSelected())
	case key.Matches(msg, keys.Delete):
		n := m.sheet.DeleteSelected()
		m.status = fmt.Sprintf("deleted %d rows", n)
	case key.Matches(msg, keys.Add):
		r := m.sheet.AddRow()
		m.moveTo(r.ID)
		m.status = "row added"
	case key.Matches(msg, keys.Export):
		return m, m.export()
	case key.Matches(msg, keys.Reset):
		m.sheet.Reset()
		m.source = ""
		m.row, m.col, m.offset = 0, 0, 0
		m.enterOpen()
		return m, textinput.Blink
	}
	m.clamp()
	m.scroll()
	return m, nil
}

// --- edit mode ---

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	c, ok := m.currentColumn()
	if !ok {
		return m, nil
	}
	if err := m.sheet.BeginEdit(r.ID, c.Key); err != nil {
		m.err = err
		return m, nil
	}
	m.mode = modeEdit
	m.input.SetValue(core.Display(r.Get(c.Key)))
	m.input.CursorEnd()
	m.input.Focus()
	return m, textinput.Blink
}

// updateEdit commits the cell on every keystroke. Enter and esc leave edit
// mode; the value typed so far is already stored.
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.sheet.EndEdit()
		m.leaveInput()
		m.clamp()
		m.scroll()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	cur := m.sheet.Editing()
	if cur == nil {
		m.leaveInput()
		return m, cmd
	}
	if err := m.sheet.CommitEdit(cur.RowID, cur.Column, m.input.Value()); err != nil {
		m.err = err
		m.sheet.EndEdit()
		m.leaveInput()
		return m, cmd
	}
	// The edit may have moved the row out of the projection or to another
	// position under the active sort; keep the cursor on it when visible.
	m.moveTo(cur.RowID)
	m.clamp()
	m.scroll()
	return m, cmd
}

// --- search mode ---

func (m *Model) enterSearch() {
	m.mode = modeSearch
	m.prevSearch = m.sheet.Search()
	m.input.SetValue(m.prevSearch)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.leaveInput()
		return m, nil
	case "esc":
		m.sheet.SetSearch(m.prevSearch)
		m.leaveInput()
		m.clamp()
		m.scroll()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.sheet.Search() {
		m.sheet.SetSearch(m.input.Value())
		m.row, m.offset = 0, 0
	}
	m.clamp()
	return m, cmd
}

// --- open mode ---

func (m *Model) enterOpen() {
	m.mode = modeOpen
	m.input.SetValue("")
	m.input.Placeholder = "path to a .csv, .json or .yaml file"
	m.input.Focus()
}

func (m Model) updateOpen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.sheet.Loaded() {
			m.leaveInput()
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		path := m.input.Value()
		if path == "" || m.sheet.Uploading() {
			return m, nil
		}
		ticket, err := m.sheet.BeginImport()
		if err != nil {
			return m, nil
		}
		m.err = nil
		m.status = "opening " + path
		return m, loadFile(path, m.opts.MaxFileSize, ticket)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) fileLoaded(msg fileLoadedMsg) Model {
	if !m.sheet.EndImport(msg.ticket) {
		slog.Info("open discarded after reset", "path", msg.path)
		return m
	}
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		slog.Warn("open failed", "path", msg.path, "error", msg.err)
		if !m.sheet.Loaded() {
			m.enterOpen()
			m.input.SetValue(msg.path)
			m.input.CursorEnd()
		}
		return m
	}

	m.sheet.Load(msg.ds)
	m.source = msg.path
	m.err = nil
	m.status = fmt.Sprintf("loaded %d rows", len(msg.ds.Rows))
	m.row, m.col, m.offset = 0, 0, 0
	m.leaveInput()
	slog.Info("opened file", "path", msg.path, "rows", len(msg.ds.Rows), "columns", len(msg.ds.Columns))
	return m
}

func (m *Model) leaveInput() {
	m.mode = modeTable
	m.input.Blur()
	m.input.Placeholder = ""
	m.input.SetValue("")
}

// --- commands ---

// loadFile reads and parses path off the update loop.
func loadFile(path string, maxSize int64, ticket uint64) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return fileLoadedMsg{path: path, ticket: ticket, err: err}
		}
		defer f.Close()

		ds, err := core.ParseFile(filepath.Base(path), "", f, maxSize)
		return fileLoadedMsg{path: path, ticket: ticket, ds: ds, err: err}
	}
}

// export renders the projection now and writes it from a command. The
// sheet is only read inside Update.
func (m Model) export() tea.Cmd {
	var buf bytes.Buffer
	if err := m.sheet.ExportCSV(&buf); err != nil {
		return func() tea.Msg { return exportedMsg{err: err} }
	}
	rows := len(m.sheet.Projection())
	path := filepath.Join(m.opts.ExportDir, core.ExportFileName)

	return func() tea.Msg {
		err := os.WriteFile(path, buf.Bytes(), 0o644)
		return exportedMsg{path: path, rows: rows, err: err}
	}
}

// --- cursor ---

func (m Model) currentRow() (core.Row, bool) {
	p := m.sheet.Projection()
	if m.row < 0 || m.row >= len(p) {
		return core.Row{}, false
	}
	return p[m.row], true
}

func (m Model) currentColumn() (core.Column, bool) {
	cols := m.sheet.Columns()
	if m.col < 0 || m.col >= len(cols) {
		return core.Column{}, false
	}
	return cols[m.col], true
}

// moveTo puts the cursor on the row with id if it is visible.
func (m *Model) moveTo(id string) {
	for i, r := range m.sheet.Projection() {
		if r.ID == id {
			m.row = i
			return
		}
	}
}

func (m *Model) clamp() {
	m.row = min(m.row, len(m.sheet.Projection())-1)
	m.row = max(m.row, 0)
	m.col = min(m.col, len(m.sheet.Columns())-1)
	m.col = max(m.col, 0)
}

// bodyHeight is the number of table rows that fit on screen.
func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	// title, header, status, help
	return max(m.height-5, 1)
}

func (m *Model) scroll() {
	h := m.bodyHeight()
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+h {
		m.offset = m.row - h + 1
	}
	m.offset = max(m.offset, 0)
}

// Err returns the last error shown in the status line.
func (m Model) Err() error {
	return m.err
}

// errMessage renders err for the status line, using the user-facing text
// when the error is a known one.
func errMessage(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Error()
	}
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
