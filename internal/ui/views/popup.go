package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws popupContent centred over a greyed copy of mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	styledPopup := popupStyle.Render(popupContent)
	popupLines := strings.Split(styledPopup, "\n")
	if len(popupLines) > height-2 && height > 2 {
		popupLines = popupLines[:height-2]
	}

	modalW := 0
	for _, l := range popupLines {
		modalW = max(modalW, ansi.StringWidth(l))
	}
	modalW = min(modalW, width)
	x := max((width-modalW)/2, 0)
	y := max((height-len(popupLines))/2, 0)

	base := strings.Split(mainContent, "\n")
	for len(base) < height {
		base = append(base, "")
	}
	out := make([]string, len(base))
	for i, line := range base {
		grey := desaturateANSI(line)
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = grey
			continue
		}
		out[i] = overlayLine(ansi.Strip(line), popupLines[row], x, modalW)
	}
	return strings.Join(out, "\n")
}

// overlayLine puts popup over plain base starting at column x
func overlayLine(base, popup string, x, w int) string {
	left := ansi.Truncate(base, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	popup = ansi.Truncate(popup, w, "")
	right := ""
	if ansi.StringWidth(base) > x+w {
		right = ansi.TruncateLeft(base, x+w, "")
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return dim.Render(left) + popup + dim.Render(right)
}

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansi.Strip(s)
	if plain == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}
