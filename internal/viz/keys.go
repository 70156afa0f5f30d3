package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Step     key.Binding
	Reset    key.Binding
	Autoplay key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Shuffle  key.Binding
	Bigger   key.Binding
	Smaller  key.Binding
	Order    key.Binding
	View     key.Binding
	Save     key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s", "enter"),
		key.WithHelp("s", "start"),
	),
	Step: key.NewBinding(
		key.WithKeys(" ", "n"),
		key.WithHelp("space/n", "step"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Autoplay: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "autoplay"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/→", "next algorithm"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab/←", "prev algorithm"),
	),
	Shuffle: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "shuffle"),
	),
	Bigger: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more cards"),
	),
	Smaller: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "fewer cards"),
	),
	Order: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "cycle order"),
	),
	View: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "cards/bars"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save run"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Step, k.Reset, k.Autoplay, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Step, k.Reset, k.Autoplay},
		{k.NextTab, k.PrevTab, k.Shuffle, k.Order},
		{k.Bigger, k.Smaller, k.View, k.Save},
		{k.Theme, k.Help, k.Quit},
	}
}
