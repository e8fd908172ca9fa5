package ui

import (
	"fmt"

	inputtypes "swscroll/internal/ui/input/types"
)

// homeMenuOffset is the body row of the first menu entry
const homeMenuOffset = 2

var homeEntries = map[inputtypes.Screen][2]string{
	inputtypes.ScreenStarships: {"Starships", "scroll both ways from the middle, hover the arrows to auto-scroll"},
	inputtypes.ScreenSpecies:   {"Species", "load more on demand"},
	inputtypes.ScreenPeople:    {"People", "loads the next page when you reach the bottom"},
	inputtypes.ScreenPosts:     {"Posts", "numbered pages with comments, edit and delete"},
}

func (m *Model) homeBody() []string {
	styles := m.renderer.Styles()
	body := []string{styles.Subtitle.Render("Pick a list"), ""}
	for i, s := range inputtypes.Screens {
		entry := homeEntries[s]
		line := fmt.Sprintf("%d  %-10s %s", i+1, entry[0], styles.Dim.Render(entry[1]))
		if i == m.homeIndex {
			line = styles.Highlight.Render("> ") + line
		} else {
			line = "  " + line
		}
		body = append(body, line)
	}
	return body
}
