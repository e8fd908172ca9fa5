package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"swscroll/internal/ui/input/types"
)

type ConfirmMode struct {
	title string
}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "delete-confirm"
}

// Target is the title of the post awaiting confirmation
func (m *ConfirmMode) Target() string {
	return m.title
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	m.title = ctx.SelectedPostTitle()
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	m.title = ""
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "n", "N":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "y", "Y":
		return []types.Action{
			types.DeletePostAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	// Swallow everything else while the question is open
	return nil, true
}
