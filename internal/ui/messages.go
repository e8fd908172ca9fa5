package ui

import (
	"swscroll/internal/autoscroll"
	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
	"swscroll/internal/ui/input/types"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// autoScrollMsg carries one auto-scroll displacement
type autoScrollMsg struct {
	screen types.Screen
	tick   autoscroll.Tick
}

// pageResultMsg reports the end of a pager load
type pageResultMsg struct {
	screen    types.Screen
	direction domain.Direction
	initial   bool
	started   bool
	err       error
}

// postsLoadedMsg contains one page of posts
type postsLoadedMsg struct {
	page  int
	posts []domain.Post
	err   error
}

// commentsLoadedMsg contains the comments of a post
type commentsLoadedMsg struct {
	postID   int
	comments []domain.Comment
	err      error
}

// mutationDoneMsg reports a finished delete or title update
type mutationDoneMsg struct {
	kind   string
	postID int
	post   domain.Post
	err    error
}

// jsonPagerMsg contains the result of a json pager command
type jsonPagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
