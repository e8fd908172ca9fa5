package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	inputtypes "swscroll/internal/ui/input/types"
	"swscroll/internal/ui/views"
)

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch action := action.(type) {
	case inputtypes.QuitAction:
		m.Close()
		return tea.Quit

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		m.showLog = false
		return nil

	case inputtypes.ToggleLogAction:
		m.showLog = !m.showLog
		m.showHelp = false
		return nil

	case inputtypes.BackAction:
		if m.posts != nil && m.posts.CloseDetail() {
			return nil
		}
		return m.openScreen(inputtypes.ScreenHome)

	case inputtypes.NavigateAction:
		return m.navigate(action.Direction)

	case inputtypes.JumpAction:
		if m.feed != nil {
			return m.feed.Jump(action.Up)
		}

	case inputtypes.PageAction:
		if m.posts != nil {
			return m.posts.PageBy(action.Delta)
		}

	case inputtypes.ToggleAutoScrollAction:
		if m.feed != nil {
			m.feed.ToggleAuto(action.Up)
		}

	case inputtypes.LoadMoreAction:
		if m.feed != nil {
			return m.feed.LoadMore()
		}

	case inputtypes.RetryAction:
		switch {
		case m.feed != nil:
			return m.feed.Retry()
		case m.posts != nil:
			return m.posts.Retry()
		}

	case inputtypes.OpenAction:
		switch {
		case m.screen == inputtypes.ScreenHome:
			return m.openScreen(inputtypes.Screens[m.homeIndex])
		case m.posts != nil:
			return m.posts.Open()
		}

	case inputtypes.OpenScreenAction:
		return m.openScreen(action.Screen)

	case inputtypes.ViewJSONAction:
		return m.viewJSON()

	case inputtypes.SubmitTextAction:
		if action.Mode == inputtypes.ModeEditTitle && m.posts != nil {
			if cmd := m.posts.UpdateTitle(action.Text); cmd != nil {
				return tea.Batch(m.setStatus("Updating title...", views.StatusLoading), cmd)
			}
		}

	case inputtypes.DeletePostAction:
		if m.posts != nil {
			if cmd := m.posts.Delete(); cmd != nil {
				return tea.Batch(m.setStatus("Deleting post...", views.StatusLoading), cmd)
			}
		}

	case inputtypes.UpdateTextAction, inputtypes.CancelTextAction:
		// the input handler owns the text
	}
	return nil
}

func (m *Model) navigate(direction string) tea.Cmd {
	switch {
	case m.feed != nil:
		switch direction {
		case "up":
			return m.feed.ScrollBy(-m.rowHeight())
		case "down":
			return m.feed.ScrollBy(m.rowHeight())
		case "home":
			return m.feed.ScrollToEdge(true)
		case "end":
			return m.feed.ScrollToEdge(false)
		}

	case m.posts != nil:
		switch direction {
		case "up":
			m.posts.Move(-1)
		case "down":
			m.posts.Move(1)
		case "home":
			m.posts.Select(0)
		case "end":
			m.posts.Select(len(m.posts.posts) - 1)
		}

	default:
		last := len(inputtypes.Screens) - 1
		switch direction {
		case "up":
			m.homeIndex = max(m.homeIndex-1, 0)
		case "down":
			m.homeIndex = min(m.homeIndex+1, last)
		case "home":
			m.homeIndex = 0
		case "end":
			m.homeIndex = last
		}
	}
	return nil
}

// viewJSON returns a command that shows the loaded records using ov pager
func (m *Model) viewJSON() tea.Cmd {
	var data []byte
	var err error
	switch {
	case m.feed != nil:
		data, err = m.feed.JSON()
	case m.posts != nil:
		data, err = m.posts.JSON()
	default:
		return nil
	}
	if err != nil {
		return m.setStatus("Failed to encode records: "+err.Error(), views.StatusError)
	}
	if m.program == nil {
		return nil
	}

	content := string(data)
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pagerOps.ShowInPager(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return jsonPagerMsg{err: err}
	}
}
