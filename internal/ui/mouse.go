package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	inputtypes "swscroll/internal/ui/input/types"
	"swscroll/internal/ui/views"
)

// wheelRows is how many rows one wheel notch scrolls
const wheelRows = 3

// handleMouse routes wheel, hover and click events through the hit map
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showHelp || m.showLog || m.inputHandler.CurrentMode() != inputtypes.ModeNormal {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.wheel(-1)
	case tea.MouseButtonWheelDown:
		return m.wheel(1)
	}

	region := m.hitmap.Test(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.feed != nil {
			m.feed.Hover(region != nil && region.ID == regionArrowUp, region != nil && region.ID == regionArrowDown)
			return nil
		}
		if region != nil && region.ID == regionHomeItem {
			m.homeIndex = region.Data.(int)
		}
		return nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || region == nil {
			return nil
		}
		switch region.ID {
		case regionArrowUp:
			if m.feed != nil {
				return m.feed.Jump(true)
			}
		case regionArrowDown:
			if m.feed != nil {
				return m.feed.Jump(false)
			}
		case regionHomeItem:
			m.homeIndex = region.Data.(int)
			return m.openScreen(inputtypes.Screens[m.homeIndex])
		case regionPostItem:
			if m.posts != nil {
				m.posts.Select(region.Data.(int))
				return m.posts.Open()
			}
		}
	}
	return nil
}

func (m *Model) wheel(dir int) tea.Cmd {
	switch {
	case m.feed != nil:
		return m.feed.ScrollBy(dir * wheelRows * m.rowHeight())
	case m.posts != nil:
		m.posts.Move(dir)
	default:
		m.homeIndex = min(max(m.homeIndex+dir, 0), len(inputtypes.Screens)-1)
	}
	return nil
}

// layoutHitMap registers the clickable regions of the current frame
func (m *Model) layoutHitMap() {
	m.hitmap.Clear()
	rows := views.BodyRows(m.height)
	width := m.width - 2*views.PaddingLeft

	switch {
	case m.feed != nil:
		if m.feed.HasArrows() {
			m.hitmap.AddRect(regionArrowUp, views.PaddingLeft, views.HeaderRows, views.GutterWidth, 1, nil)
			m.hitmap.AddRect(regionArrowDown, views.PaddingLeft, views.HeaderRows+rows-1, views.GutterWidth, 1, nil)
		}
	case m.posts != nil:
		for i := 0; i < min(m.posts.ListRows(), rows); i++ {
			m.hitmap.AddRect(regionPostItem, views.PaddingLeft, views.HeaderRows+i, width, 1, i)
		}
	default:
		for i := range inputtypes.Screens {
			if homeMenuOffset+i >= rows {
				break
			}
			m.hitmap.AddRect(regionHomeItem, views.PaddingLeft, views.HeaderRows+homeMenuOffset+i, width, 1, i)
		}
	}
}
