package tui

import "github.com/charmbracelet/bubbles/key"

// tableKeyMap defines key bindings while the record table has focus
type tableKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Sort     key.Binding
	Filter   key.Binding
	PageSize key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Reload   key.Binding
	Switch   key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k tableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Sort, k.Filter, k.NextPage, k.Switch, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k tableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Sort, k.Filter, k.PageSize},
		{k.NextPage, k.PrevPage, k.Reload, k.Switch},
		{k.Dismiss, k.Help, k.Quit},
	}
}

// formKeyMap defines key bindings while the property form has focus
type formKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	DayBack  key.Binding
	DayAhead key.Binding
	Save     key.Binding
	Switch   key.Binding
	Back     key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Save, k.Back, k.Help}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit},
		{k.DayBack, k.DayAhead, k.Save},
		{k.Switch, k.Back, k.Dismiss},
		{k.Help, k.Quit},
	}
}

// editorKeyMap defines key bindings while a field is expanded for editing
type editorKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Next, k.Confirm, k.Cancel}}
}

// confirmKeyMap defines key bindings for the confirmation modal
type confirmKeyMap struct {
	Yes   key.Binding
	No    key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Left, k.Right, k.Enter}
}

// FullHelp returns keybindings for the expanded help view
func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No, k.Left, k.Right, k.Enter}}
}

type keyMaps struct {
	Table   tableKeyMap
	Form    formKeyMap
	Editor  editorKeyMap
	Confirm confirmKeyMap
}

func newKeyMaps() keyMaps {
	quit := key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	help := key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help"))
	dismiss := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss message"))
	switchPane := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane"))

	return keyMaps{
		Table: tableKeyMap{
			Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
			Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
			Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit row")),
			Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
			Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
			PageSize: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "rows per page")),
			NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
			PrevPage: key.NewBinding(key.WithKeys("b", "pgup"), key.WithHelp("b", "prev page")),
			Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
			Switch:   switchPane,
			Dismiss:  dismiss,
			Help:     help,
			Quit:     quit,
		},
		Form: formKeyMap{
			Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Edit:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "edit/toggle")),
			DayBack:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "day back")),
			DayAhead: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "day ahead")),
			Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
			Switch:   switchPane,
			Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to table")),
			Dismiss:  dismiss,
			Help:     help,
			Quit:     quit,
		},
		Editor: editorKeyMap{
			Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev option")),
			Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next option")),
			Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next box")),
			Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
		Confirm: confirmKeyMap{
			Yes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
			No:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "no")),
			Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
			Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
			Enter: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		},
	}
}
