package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// JumpAction scrolls one jump (300 px) up or down
type JumpAction struct {
	Up bool
}

func (a JumpAction) Type() string { return "jump" }

// PageAction moves the posts page by Delta
type PageAction struct {
	Delta int
}

func (a PageAction) Type() string { return "page" }

type ToggleAutoScrollAction struct {
	Up bool
}

func (a ToggleAutoScrollAction) Type() string { return "toggle_autoscroll" }

type LoadMoreAction struct{}

func (a LoadMoreAction) Type() string { return "load_more" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

// OpenAction opens the item under the cursor
type OpenAction struct{}

func (a OpenAction) Type() string { return "open" }

// OpenScreenAction jumps straight to a screen from the home menu
type OpenScreenAction struct {
	Screen Screen
}

func (a OpenScreenAction) Type() string { return "open_screen" }

type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type ViewJSONAction struct{}

func (a ViewJSONAction) Type() string { return "view_json" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type ToggleLogAction struct{}

func (a ToggleLogAction) Type() string { return "toggle_log" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

type DeletePostAction struct{}

func (a DeletePostAction) Type() string { return "delete_post" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
