package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the TUI understands.
type keyMap struct {
	PlayPause   key.Binding
	Skip        key.Binding
	Restart     key.Binding
	Shake       key.Binding
	Flip        key.Binding
	ShakePolicy key.Binding
	FacePolicy  key.Binding
	NextView    key.Binding
	Weekly      key.Binding
	Monthly     key.Binding
	Yearly      key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause:   key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
		Skip:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip phase")),
		Restart:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Shake:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shake")),
		Flip:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flip face-down")),
		ShakePolicy: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shake control")),
		FacePolicy:  key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "face-down control")),
		NextView:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Weekly:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		Monthly:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Yearly:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		PrevPage:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
		NextPage:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
		Refresh:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Skip, k.Restart, k.NextView, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Skip, k.Restart},
		{k.Shake, k.Flip, k.ShakePolicy, k.FacePolicy},
		{k.NextView, k.Weekly, k.Monthly, k.Yearly},
		{k.PrevPage, k.NextPage, k.Refresh, k.Quit},
	}
}
