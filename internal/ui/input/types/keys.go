package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the normal-mode key set, also fed to the help bubble
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	AutoUp     key.Binding
	AutoDown   key.Binding
	Open       key.Binding
	LoadMore   key.Binding
	Retry      key.Binding
	ViewJSON   key.Binding
	Delete     key.Binding
	EditTitle  key.Binding
	Back       key.Binding
	Log        key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	ScreenKeys []key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "jump up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "jump down")),
		PrevPage:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous page")),
		NextPage:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next page")),
		AutoUp:    key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "auto-scroll up")),
		AutoDown:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "auto-scroll down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		LoadMore:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		ViewJSON:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view json")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete post")),
		EditTitle: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "edit title")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Log:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "activity")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		ScreenKeys: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "starships")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "species")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "people")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "posts")),
		},
	}
}

// ScreenHelp narrows a KeyMap to the bindings that do something on one screen
type ScreenHelp struct {
	Keys   KeyMap
	Screen Screen
}

// ShortHelp implements help.KeyMap
func (h ScreenHelp) ShortHelp() []key.Binding {
	k := h.Keys
	switch h.Screen {
	case ScreenHome:
		return []key.Binding{k.Up, k.Down, k.Open, k.Log, k.Help, k.Quit}
	case ScreenStarships:
		return []key.Binding{k.PageUp, k.PageDown, k.AutoUp, k.AutoDown, k.ViewJSON, k.Back, k.Help}
	case ScreenSpecies:
		return []key.Binding{k.Up, k.Down, k.LoadMore, k.ViewJSON, k.Back, k.Help}
	case ScreenPeople:
		return []key.Binding{k.Up, k.Down, k.PageDown, k.ViewJSON, k.Back, k.Help}
	case ScreenPosts:
		return []key.Binding{k.PrevPage, k.NextPage, k.Open, k.Delete, k.EditTitle, k.Back, k.Help}
	}
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (h ScreenHelp) FullHelp() [][]key.Binding {
	k := h.Keys
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.PrevPage, k.NextPage},
		{k.AutoUp, k.AutoDown, k.LoadMore, k.Retry, k.Open},
		{k.ViewJSON, k.Delete, k.EditTitle, k.Log, k.Back, k.Help, k.Quit},
	}
}
