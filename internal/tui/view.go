package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

const (
	minColWidth = 4
	maxColWidth = 24
	selectWidth = 3
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteString("\n")

	switch {
	case m.mode == modeOpen:
		b.WriteString(m.viewOpen())
	case !m.sheet.Loaded():
		b.WriteString(dimStyle.Render("loading " + m.opts.Path + "..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewTable())
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewTitle() string {
	title := "sheetedit"
	if m.source != "" {
		title += " - " + m.source
	}
	if !m.sheet.Loaded() {
		return titleStyle.Render(title)
	}
	v := m.sheet.View()
	counts := fmt.Sprintf("  %d of %d rows, %d selected", len(v.Rows), v.Total, len(v.Selected))
	return titleStyle.Render(title) + dimStyle.Render(counts)
}

func (m Model) viewOpen() string {
	var b strings.Builder
	b.WriteString("Open file: ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.sheet.Uploading() {
		b.WriteString(dimStyle.Render("reading..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTable() string {
	cols := m.sheet.Columns()
	rows := m.sheet.Projection()
	widths := m.columnWidths()
	first, last := m.visibleColumns(widths)
	sortCfg := m.sheet.Sort()
	editing := m.sheet.Editing()

	var b strings.Builder

	// header
	header := []string{fit("", selectWidth)}
	for i := first; i < last; i++ {
		label := cols[i].Label
		if sortCfg.Column == cols[i].Key {
			if sortCfg.Direction == core.Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		header = append(header, fit(label, widths[i]))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(rows) == 0 {
		if m.sheet.Search() != "" {
			b.WriteString(dimStyle.Render("no rows match " + fmt.Sprintf("%q", m.sheet.Search())))
		} else {
			b.WriteString(dimStyle.Render("no rows"))
		}
		b.WriteString("\n")
		return b.String()
	}

	selected := make(map[string]bool)
	for _, id := range m.sheet.SelectedIDs() {
		selected[id] = true
	}

	end := min(m.offset+m.bodyHeight(), len(rows))
	for ri := m.offset; ri < end; ri++ {
		r := rows[ri]
		mark := fit("[ ]", selectWidth)
		if selected[r.ID] {
			mark = selectedStyle.Render(fit("[x]", selectWidth))
		}
		line := []string{mark}

		for ci := first; ci < last; ci++ {
			c := cols[ci]
			isEditing := editing != nil && editing.RowID == r.ID && editing.Column == c.Key
			switch {
			case isEditing && m.mode == modeEdit:
				line = append(line, editStyle.Render(fit(m.input.Value()+"▏", widths[ci])))
			case ri == m.row && ci == m.col:
				line = append(line, cursorStyle.Render(fit(core.Display(r.Get(c.Key)), widths[ci])))
			default:
				line = append(line, fit(core.Display(r.Get(c.Key)), widths[ci]))
			}
		}
		b.WriteString(strings.Join(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(errMessage(m.err))
	case m.mode == modeSearch:
		return "/" + m.input.View()
	case m.mode == modeEdit:
		return statusStyle.Render("editing, enter or esc to finish")
	case m.status != "":
		return statusStyle.Render(m.status)
	case m.sheet.Search() != "":
		return dimStyle.Render("search: " + m.sheet.Search())
	}
	return ""
}

func (m Model) viewHelp() string {
	if m.mode != modeTable {
		return dimStyle.Render("enter confirm  esc cancel")
	}
	var parts []string
	for _, k := range keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

// columnWidths sizes each column to its widest visible value, bounded by
// minColWidth and maxColWidth.
func (m Model) columnWidths() []int {
	cols := m.sheet.Columns()
	rows := m.sheet.Projection()
	end := min(m.offset+m.bodyHeight(), len(rows))
	start := min(m.offset, end)

	widths := make([]int, len(cols))
	for i, c := range cols {
		w := lipgloss.Width(c.Label) + 2 // room for the sort arrow
		for _, r := range rows[start:end] {
			w = max(w, lipgloss.Width(core.Display(r.Get(c.Key))))
		}
		widths[i] = min(max(w, minColWidth), maxColWidth)
	}
	return widths
}

// visibleColumns returns the half-open range of columns that fit the
// terminal width while keeping the cursor column on screen.
func (m Model) visibleColumns(widths []int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}
	avail := m.width
	if avail <= 0 {
		return 0, len(widths)
	}
	avail -= selectWidth + 1

	first := 0
	for {
		used := 0
		last := first
		for last < len(widths) && used+widths[last] <= avail {
			used += widths[last] + 1
			last++
		}
		if last == first {
			last = first + 1
		}
		if m.col < last || first >= m.col {
			return first, last
		}
		first++
	}
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= w {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteString("…")
	used++
	return b.String() + strings.Repeat(" ", max(w-used, 0))
}
