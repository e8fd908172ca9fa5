package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"swscroll/internal/ui/input/types"
)

type NormalMode struct {
	keys        types.KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys
	screen := ctx.Screen()

	// gg goes to the top
	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	m.lastKeyWasG = false

	switch {
	case key.Matches(msg, k.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true
	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	case key.Matches(msg, k.Log):
		return []types.Action{types.ToggleLogAction{}}, true
	case key.Matches(msg, k.Back):
		if screen == types.ScreenHome {
			return nil, true
		}
		return []types.Action{types.BackAction{}}, true
	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case msg.String() == "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}

	if screen == types.ScreenHome {
		if key.Matches(msg, k.Open) {
			return []types.Action{types.OpenAction{}}, true
		}
		for i, b := range k.ScreenKeys {
			if key.Matches(msg, b) && i < len(types.Screens) {
				return []types.Action{types.OpenScreenAction{Screen: types.Screens[i]}}, true
			}
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, k.Retry):
		return []types.Action{types.RetryAction{}}, true
	case key.Matches(msg, k.ViewJSON):
		return []types.Action{types.ViewJSONAction{}}, true
	}

	switch screen {
	case types.ScreenPosts:
		switch {
		case key.Matches(msg, k.PrevPage):
			return []types.Action{types.PageAction{Delta: -1}}, true
		case key.Matches(msg, k.NextPage):
			return []types.Action{types.PageAction{Delta: 1}}, true
		case key.Matches(msg, k.Open):
			return []types.Action{types.OpenAction{}}, true
		case key.Matches(msg, k.Delete):
			if ctx.HasSelectedPost() {
				return []types.Action{types.ChangeModeAction{Mode: types.ModeDeleteConfirm}}, true
			}
			return nil, true
		case key.Matches(msg, k.EditTitle):
			if ctx.HasSelectedPost() {
				return []types.Action{types.ChangeModeAction{Mode: types.ModeEditTitle, Data: ctx.SelectedPostTitle()}}, true
			}
			return nil, true
		}

	default:
		switch {
		case key.Matches(msg, k.PageUp):
			return []types.Action{types.JumpAction{Up: true}}, true
		case key.Matches(msg, k.PageDown):
			return []types.Action{types.JumpAction{Up: false}}, true
		case key.Matches(msg, k.AutoUp):
			return []types.Action{types.ToggleAutoScrollAction{Up: true}}, true
		case key.Matches(msg, k.AutoDown):
			return []types.Action{types.ToggleAutoScrollAction{Up: false}}, true
		case key.Matches(msg, k.LoadMore), key.Matches(msg, k.Open):
			return []types.Action{types.LoadMoreAction{}}, true
		}
	}

	return nil, false
}
