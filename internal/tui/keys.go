package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the table-mode bindings. Edit, search and open modes read
// raw keystrokes into the text input and only react to enter and esc.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Edit      key.Binding
	Search    key.Binding
	Sort      key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Delete    key.Binding
	Add       key.Binding
	Export    key.Binding
	Reset     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Edit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected")),
	Add:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add row")),
	Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// help returns the bindings shown in the footer, in display order.
func (k keyMap) help() []key.Binding {
	return []key.Binding{
		k.Edit, k.Search, k.Sort, k.Select, k.SelectAll,
		k.Delete, k.Add, k.Export, k.Reset, k.Quit,
	}
}
