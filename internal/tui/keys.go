package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Focus       key.Binding
	Open        key.Binding
	NextCamera  key.Binding
	PrevCamera  key.Binding
	ApplyCamera key.Binding
	NextGrid    key.Binding
	Background  key.Binding
	OrbitLeft   key.Binding
	OrbitRight  key.Binding
	OrbitUp     key.Binding
	OrbitDown   key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Up          key.Binding
	Down        key.Binding
	Decrease    key.Binding
	Increase    key.Binding
	Commit      key.Binding
	Cancel      key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "viewport/controls")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open model")),
		NextCamera:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next camera")),
		PrevCamera:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev camera")),
		ApplyCamera: key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("p", "apply camera")),
		NextGrid:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next grid")),
		Background:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "background")),
		OrbitLeft:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "orbit")),
		OrbitRight:  key.NewBinding(key.WithKeys("right", "l")),
		OrbitUp:     key.NewBinding(key.WithKeys("up", "k")),
		OrbitDown:   key.NewBinding(key.WithKeys("down", "j")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:     key.NewBinding(key.WithKeys("-")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Decrease:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "adjust")),
		Increase:    key.NewBinding(key.WithKeys("right", "l")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("0-9 enter", "set value")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.ApplyCamera, k.NextCamera, k.NextGrid, k.Background, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.NextCamera, k.PrevCamera, k.ApplyCamera, k.NextGrid, k.Background},
		{k.OrbitLeft, k.ZoomIn, k.Focus},
		{k.Up, k.Decrease, k.Commit, k.Cancel},
		{k.Help, k.Quit},
	}
}
