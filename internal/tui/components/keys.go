package components

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the main view.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Collapse      key.Binding
	Expand        key.Binding
	Enter         key.Binding
	NewCollection key.Binding
	NewFolder     key.Binding
	NewRequest    key.Binding
	Rename        key.Binding
	Delete        key.Binding
	Duplicate     key.Binding
	Move          key.Binding
	Cancel        key.Binding
	Sort          key.Binding
	Send          key.Binding
	CopyCurl      key.Binding
	EditURL       key.Binding
	CycleMethod   key.Binding
	Save          key.Binding
	History       key.Binding
	ToggleHeaders key.Binding
	SwitchPane    key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Collapse:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "collapse")),
		Expand:        key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "expand")),
		Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/toggle")),
		NewCollection: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new collection")),
		NewFolder:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "new folder")),
		NewRequest:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new request")),
		Rename:        key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Duplicate:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
		Move:          key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Sort:          key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort")),
		Send:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "send")),
		CopyCurl:      key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy curl")),
		EditURL:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "edit url")),
		CycleMethod:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "method")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save request")),
		History:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
		ToggleHeaders: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "body/headers")),
		SwitchPane:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp returns the bindings shown in the help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.NewRequest, k.Send, k.Move, k.Delete, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand, k.Enter, k.SwitchPane},
		{k.NewCollection, k.NewFolder, k.NewRequest, k.Rename, k.Delete, k.Duplicate},
		{k.Move, k.Cancel, k.Sort, k.Save, k.History, k.ToggleHeaders},
		{k.Send, k.EditURL, k.CycleMethod, k.CopyCurl, k.Help, k.Quit},
	}
}
