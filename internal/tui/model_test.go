package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetedit/internal/core"
	_ "github.com/JonMunkholm/sheetedit/internal/core/formats"
)

func record(name string, age float64, city string) core.Record {
	return core.Record{
		Keys:   []string{"name", "age", "city"},
		Values: map[string]core.Value{"name": name, "age": age, "city": city},
	}
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	ds, err := core.BuildDataset([]core.Record{
		record("Alice", 30, "Paris"),
		record("Bob", 25, "Berlin"),
		record("Carol", 35, "Paris"),
	})
	require.NoError(t, err)

	sheet := core.NewSheet()
	sheet.Load(ds)
	m := New(sheet, Options{ExportDir: t.TempDir()})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func names(m Model) []string {
	var out []string
	for _, r := range m.sheet.Projection() {
		out = append(out, core.Display(r.Get("name")))
	}
	return out
}

func TestNew_StartsInOpenModeWithoutFile(t *testing.T) {
	m := New(core.NewSheet(), Options{})

	assert.Equal(t, modeOpen, m.mode)
	assert.Nil(t, m.Init())
}

func TestNavigation_Clamps(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "up", "h")
	assert.Equal(t, 0, m.row)
	assert.Equal(t, 0, m.col)

	m = press(t, m, "j", "j", "j", "j", "l", "l", "l", "l")
	assert.Equal(t, 2, m.row)
	assert.Equal(t, 2, m.col)
}

func TestSort_UsesCursorColumn(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "l", "s")
	assert.Equal(t, core.SortConfig{Column: "age", Direction: core.Ascending}, m.sheet.Sort())
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names(m))

	m = press(t, m, "s")
	assert.Equal(t, core.Descending, m.sheet.Sort().Direction)
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names(m))
}

func TestSearch_FiltersLiveAndEscRestores(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m = typeText(t, m, "par")
	assert.Equal(t, []string{"Alice", "Carol"}, names(m))

	m = press(t, m, "esc")
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, "", m.sheet.Search())
	assert.Len(t, names(m), 3)

	m = press(t, m, "/")
	m = typeText(t, m, "berlin")
	m = press(t, m, "enter")
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, "berlin", m.sheet.Search())
	assert.Equal(t, []string{"Bob"}, names(m))
}

func TestEdit_CommitsEveryKeystroke(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "j", "l", "l") // Bob, city

	m = press(t, m, "enter")
	require.Equal(t, modeEdit, m.mode)
	require.NotNil(t, m.sheet.Editing())
	assert.Equal(t, "Berlin", m.input.Value())

	for range len("Berlin") {
		m = press(t, m, "backspace")
	}
	m = typeText(t, m, "Ro")
	bob := m.sheet.Projection()[1]
	assert.Equal(t, "Ro", bob.Get("city"), "each keystroke is stored")

	m = typeText(t, m, "me")
	m = press(t, m, "esc")
	assert.Equal(t, modeTable, m.mode)
	assert.Nil(t, m.sheet.Editing())

	bob, ok := m.sheet.Row(bob.ID)
	require.True(t, ok)
	assert.Equal(t, "Rome", bob.Get("city"))
}

func TestEdit_FollowsRowUnderSort(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "s") // sort by name ascending; cursor on Alice

	m = press(t, m, "enter")
	for range len("Alice") {
		m = press(t, m, "backspace")
	}
	m = typeText(t, m, "Zoe")

	assert.Equal(t, []string{"Bob", "Carol", "Zoe"}, names(m))
	assert.Equal(t, 2, m.row, "cursor stays on the edited row")
}

func TestSelectDeleteAndAdd(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, " ", "j", "j", " ")
	assert.Len(t, m.sheet.SelectedIDs(), 2)

	m = press(t, m, "d")
	assert.Equal(t, []string{"Bob"}, names(m))
	assert.Empty(t, m.sheet.SelectedIDs())
	assert.Equal(t, 0, m.row)

	m = press(t, m, "n")
	assert.Len(t, m.sheet.Rows(), 2)
	assert.Equal(t, 1, m.row, "cursor moves to the new row")

	m = press(t, m, "a")
	assert.Len(t, m.sheet.SelectedIDs(), 2)
	m = press(t, m, "a")
	assert.Empty(t, m.sheet.SelectedIDs())
}

func TestExport_WritesProjection(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "/")
	m = typeText(t, m, "paris")
	m = press(t, m, "enter")

	next, cmd := m.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	msg := cmd()
	exported, ok := msg.(exportedMsg)
	require.True(t, ok)
	require.NoError(t, exported.err)
	assert.Equal(t, 2, exported.rows)

	data, err := os.ReadFile(filepath.Join(m.opts.ExportDir, core.ExportFileName))
	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nAlice,30,Paris\nCarol,35,Paris\n", string(data))

	m = update(t, next.(Model), msg)
	assert.Contains(t, m.status, "exported 2 rows")
}

func TestReset_ReturnsToOpenPrompt(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "r")

	assert.Equal(t, modeOpen, m.mode)
	assert.False(t, m.sheet.Loaded())
}

func TestOpen_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Dan","age":41}]`), 0o644))

	m := New(core.NewSheet(), Options{})
	m = typeText(t, m, path)
	next, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.True(t, m.sheet.Uploading())

	m = update(t, m, cmd())
	assert.Equal(t, modeTable, m.mode)
	assert.False(t, m.sheet.Uploading())
	assert.Equal(t, []string{"Dan"}, names(m))
	assert.Equal(t, path, m.source)
}

func TestOpen_ResetDiscardsPendingLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nDan\n"), 0o644))

	m := loadedModel(t)
	m.opts.Path = path
	cmd := m.Init()
	require.NotNil(t, cmd)

	m = press(t, m, "r")
	assert.True(t, m.sheet.Uploading(), "the pending load keeps the sheet busy")

	m = update(t, m, cmd())
	assert.False(t, m.sheet.Uploading())
	assert.False(t, m.sheet.Loaded())
	assert.Equal(t, modeOpen, m.mode)
}

func TestOpen_ErrorStaysOnPrompt(t *testing.T) {
	m := New(core.NewSheet(), Options{})
	m = typeText(t, m, filepath.Join(t.TempDir(), "missing.csv"))
	next, cmd := m.Update(keyMsg("enter"))
	m = update(t, next.(Model), cmd())

	assert.Equal(t, modeOpen, m.mode)
	require.Error(t, m.Err())
	assert.False(t, m.sheet.Loaded())
}

func TestInit_LoadsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	m := New(core.NewSheet(), Options{Path: path})
	cmd := m.Init()
	require.NotNil(t, cmd)

	m = update(t, m, cmd())
	require.ErrorIs(t, m.Err(), core.ErrUnsupportedFormat)
	assert.Contains(t, m.View(), "FILE007")
}

func TestView_RendersTable(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "s", " ")

	out := m.View()

	assert.Contains(t, out, "name ▲")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "3 of 3 rows, 1 selected")
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdef", 4))
	assert.Equal(t, "a b ", fit("a\nb", 4))
}
