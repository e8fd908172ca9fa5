package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screen geometry shared with the mouse hit map
const (
	PaddingLeft = 1 // Main style left padding
	HeaderRows  = 3 // title, debug line, blank
	FooterRows  = 2 // status, help
	GutterWidth = 3 // arrow column
)

// BodyRows returns the number of rows available to the body at a terminal height
func BodyRows(height int) int {
	return max(height-HeaderRows-FooterRows, 1)
}

// StatusKind selects the status line colour
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// ArrowState is the state of the two auto-scroll buttons
type ArrowState struct {
	UpActive     bool
	DownActive   bool
	UpDisabled   bool
	DownDisabled bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width       int
	Height      int
	Title       string
	Indicator   string // right-aligned, e.g. spinner
	Debug       string
	Body        []string // already cut to BodyRows
	Arrows      *ArrowState
	Prompt      string // replaces the status line while set
	Status      string
	StatusKind  StatusKind
	HelpView    string
	ShowHelp    bool
	HelpContent string
	ShowLog     bool
	LogContent  string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	cards       *CardRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		cards:       NewCardRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Cards returns the card renderer
func (r *Renderer) Cards() *CardRenderer { return r.cards }

// ContentWidth is the usable width for body rows at a terminal width
func ContentWidth(width int, arrows bool) int {
	w := width - 2*PaddingLeft
	if arrows {
		w -= GutterWidth
	}
	return max(w, 10)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	height := state.Height
	if height <= 0 {
		height = 24
	}

	var content strings.Builder

	title := r.styles.Title.Render(state.Title)
	if state.Indicator != "" {
		right := r.styles.Dim.Render(state.Indicator)
		gap := width - 2*PaddingLeft - lipgloss.Width(title) - lipgloss.Width(right)
		if gap < 2 {
			gap = 2
		}
		title += strings.Repeat(" ", gap) + right
	}
	content.WriteString(title)
	content.WriteString("\n")
	content.WriteString(r.styles.Debug.Render(state.Debug))
	content.WriteString("\n\n")

	rows := BodyRows(height)
	for i := 0; i < rows; i++ {
		line := ""
		if i < len(state.Body) {
			line = state.Body[i]
		}
		if state.Arrows != nil {
			line = r.gutter(state.Arrows, i, rows) + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	switch {
	case state.Prompt != "":
		content.WriteString(r.styles.Confirm.Render(state.Prompt))
	case state.Status != "":
		content.WriteString(r.statusStyle(state.StatusKind).Render(state.Status))
	}
	content.WriteString("\n")
	if state.HelpView != "" {
		content.WriteString(state.HelpView)
	} else {
		content.WriteString(r.styles.Help.Render("Press ? for help"))
	}

	mainStyle := r.styles.Main.MaxHeight(height)
	finalContent := mainStyle.Render(content.String())

	if state.ShowLog {
		return r.popupRender.RenderPopupOverlay(finalContent, state.LogContent, height, width, r.styles.LogBox)
	}
	if state.ShowHelp {
		return r.popupRender.RenderPopupOverlay(finalContent, state.HelpContent, height, width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) gutter(a *ArrowState, row, rows int) string {
	blank := strings.Repeat(" ", GutterWidth)
	switch row {
	case 0:
		return r.arrow("▲", a.UpActive, a.UpDisabled)
	case rows - 1:
		return r.arrow("▼", a.DownActive, a.DownDisabled)
	}
	return blank
}

func (r *Renderer) arrow(glyph string, active, disabled bool) string {
	cell := " " + glyph + " "
	switch {
	case active:
		return r.styles.ArrowActive.Render(cell)
	case disabled:
		return r.styles.ArrowDisabled.Render(cell)
	default:
		return r.styles.Arrow.Render(cell)
	}
}

func (r *Renderer) statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusLoading:
		return r.styles.StatusLoading
	case StatusSuccess:
		return r.styles.StatusSuccess
	case StatusError:
		return r.styles.StatusError
	default:
		return r.styles.Status
	}
}
