package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

func sampleView() core.View {
	return core.View{
		State:   core.ViewTable,
		Columns: []core.Column{{Key: "name", Label: "name"}, {Key: "note", Label: "note"}},
		Rows: []core.Row{
			{ID: "r1", Cells: map[string]core.Value{"name": "Alice", "note": "<b>hi</b>"}},
			{ID: "r2", Cells: map[string]core.Value{"name": "Bob", "note": nil}},
		},
		Total:    3,
		Search:   `a"b`,
		Sort:     core.SortConfig{Column: "name", Direction: core.Descending},
		Selected: []string{"r2"},
		Editing:  &core.EditCursor{RowID: "r1", Column: "name"},
	}
}

func TestSheet_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sheet(sampleView()).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `<section id="sheet"`)
	assert.Contains(t, out, `&lt;b&gt;hi&lt;/b&gt;`, "cell text is escaped")
	assert.NotContains(t, out, `<b>hi</b>`)
	assert.Contains(t, out, `value="a&#34;b"`, "search term is escaped in the attribute")
	assert.Contains(t, out, `▼`, "descending arrow on the sorted column")
	assert.Contains(t, out, `data-cell autofocus value="Alice"`, "editing cell renders an input")
	assert.Contains(t, out, `Showing 2 of 3 rows`)
	assert.Contains(t, out, `1 selected`)
	assert.Contains(t, out, `<tr data-row="r2" class="selected">`)
	assert.Contains(t, out, `hx-post="/api/submit"><button type="submit" class="btn btn-primary" disabled`)
}

func TestSheet_HtmxWiring(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sheet(sampleView()).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `<section id="sheet" hx-target="this" hx-swap="outerHTML"><div id="alerts"></div>`)
	assert.Contains(t, out, `hx-post="/api/search" hx-trigger="input changed delay:200ms, search"`)
	assert.Contains(t, out, `value="Alice" hx-post="/api/cell" hx-trigger="input" hx-swap="none"`,
		"the editing cell commits every keystroke without swapping")
	assert.Contains(t, out, `class="cell-edit" hx-post="/api/edit/end"`)
	assert.Contains(t, out, `action="/api/sort/name" hx-post="/api/sort/name"`)
	assert.Contains(t, out, `action="/api/select/r2" hx-post="/api/select/r2"`)
}

func TestSheet_EmptyProjection(t *testing.T) {
	v := sampleView()
	v.Rows = nil
	v.Selected = nil
	v.Editing = nil

	var buf bytes.Buffer
	require.NoError(t, Sheet(v).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `colspan="3"`)
	assert.Contains(t, out, `No matching rows`)
	assert.Contains(t, out, `Delete selected`)
	assert.NotContains(t, out, `Done editing`)
}

func TestSheet_ColumnKeysAreEscapedInURLs(t *testing.T) {
	v := core.View{Columns: []core.Column{{Key: "a/b c", Label: "a/b c"}}}

	var buf bytes.Buffer
	require.NoError(t, Sheet(v).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `action="/api/sort/a%2Fb%20c"`)
}

func TestUploadPage_WithError(t *testing.T) {
	var buf bytes.Buffer
	err := UploadPage(UploadData{
		Accept: ".csv,text/csv",
		Error:  &Alert{Message: "File is not valid JSON", Action: "Fix it", Code: "FILE006"},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, `<!doctype html>`)
	assert.Contains(t, out, `<script src="/static/htmx.min.js" defer></script>`)
	assert.Contains(t, out, `name="htmx-config" content="{&#34;includeIndicatorStyles&#34;:false`)
	assert.Contains(t, out, `accept=".csv,text/csv"`)
	assert.Contains(t, out, `Code: FILE006`)
	assert.Contains(t, out, `enctype="multipart/form-data"`)
}

func TestUploadForm_Uploading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, UploadForm(UploadData{Uploading: true}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `Loading…`)
	assert.NotContains(t, buf.String(), `role="alert"`)
}
