package input

import (
	"swscroll/internal/domain"
	"swscroll/internal/ui/input/types"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	CurrentScreen types.Screen
	SelectedPost  *domain.Post
}

// Screen returns the screen being shown
func (c *ModelContext) Screen() types.Screen {
	return c.CurrentScreen
}

// HasSelectedPost reports whether a post is under the cursor
func (c *ModelContext) HasSelectedPost() bool {
	return c.SelectedPost != nil
}

// SelectedPostTitle returns the title of the post under the cursor
func (c *ModelContext) SelectedPostTitle() string {
	if c.SelectedPost == nil {
		return ""
	}
	return c.SelectedPost.Title
}
