package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the main screen.
type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Skip       key.Binding
	Focus      key.Binding
	Metrics    key.Binding
	Work       key.Binding
	Short      key.Binding
	Long       key.Binding
	Theme      key.Binding
	AddTask    key.Binding
	ToggleTask key.Binding
	DeleteTask key.Binding
	MoveDown   key.Binding
	MoveUp     key.Binding
	CursorDown key.Binding
	CursorUp   key.Binding
	Settings   key.Binding
	Sound      key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Skip:       key.NewBinding(key.WithKeys("n", "s"), key.WithHelp("n/s", "skip")),
		Focus:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Metrics:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "metrics")),
		Work:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus time")),
		Short:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		Long:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		AddTask:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		ToggleTask: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
		DeleteTask: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		MoveDown:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J/K", "move task")),
		MoveUp:     key.NewBinding(key.WithKeys("K")),
		CursorDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "select")),
		CursorUp:   key.NewBinding(key.WithKeys("k", "up")),
		Settings:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "settings")),
		Sound:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "ambient")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
		VolumeDown: key.NewBinding(key.WithKeys("-")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Skip, k.Focus, k.Metrics, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Skip, k.Work, k.Short, k.Long},
		{k.AddTask, k.ToggleTask, k.DeleteTask, k.MoveDown, k.CursorDown},
		{k.Focus, k.Metrics, k.Settings, k.Theme},
		{k.Sound, k.VolumeUp, k.Help, k.Quit},
	}
}
