package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"swscroll/internal/ui/input/modes"
	"swscroll/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
	keys        types.KeyMap
}

func New() *Handler {
	ti := textinput.New()
	ti.CharLimit = 200

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		keys:        types.DefaultKeyMap(),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode(h.keys)
	h.modes[types.ModeEditTitle] = modes.NewEditTitleMode(h.textInput)
	h.modes[types.ModeDeleteConfirm] = modes.NewConfirmMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	var cmd tea.Cmd
	var allActions []types.Action

	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Exit(ctx)...)
		}

		oldMode := h.currentMode
		h.currentMode = changeMode.Mode

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Enter(ctx)...)
		}

		if h.isTextMode(h.currentMode) {
			h.textInput.Reset()
			h.textInput.SetValue(changeMode.Data)
			h.textInput.CursorEnd()
			h.textInput.Focus()
			cmd = textinput.Blink
		} else if h.isTextMode(oldMode) {
			h.textInput.Blur()
		}
	}

	// In a text mode, keys the mode did not handle go to the text input
	if h.isTextMode(h.currentMode) && (!consumed || len(actions) == 0) {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// Keys returns the normal-mode key map
func (h *Handler) Keys() types.KeyMap {
	return h.keys
}

// Prompt returns the line to show for the current mode, or ""
func (h *Handler) Prompt() string {
	switch mode := h.modes[h.currentMode].(type) {
	case *modes.EditTitleMode:
		return mode.Prompt() + h.textInput.View()
	case *modes.ConfirmMode:
		return "Delete post '" + mode.Target() + "'? (y/n)"
	}
	return ""
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeEditTitle
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
