package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"swscroll/internal/domain"
)

// CardRenderer turns records into fixed-height blocks of rows
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// Starship renders a starship card
func (c *CardRenderer) Starship(s domain.Starship, width int) []string {
	return c.card(s.Name, width,
		[2]string{"Model", s.Model},
		[2]string{"Manufacturer", s.Manufacturer},
		[2]string{"Class", s.StarshipClass},
	)
}

// Species renders a species card
func (c *CardRenderer) Species(s domain.Species, width int) []string {
	return c.card(s.Name, width,
		[2]string{"Language", s.Language},
		[2]string{"Average lifespan", s.AverageLifespan},
		[2]string{"Classification", s.Classification},
	)
}

// Person renders a person card
func (c *CardRenderer) Person(p domain.Person, width int) []string {
	return c.card(p.Name, width,
		[2]string{"Hair", p.HairColor},
		[2]string{"Eyes", p.EyeColor},
		[2]string{"Born", p.BirthYear},
	)
}

func (c *CardRenderer) card(name string, width int, fields ...[2]string) []string {
	lines := make([]string, 0, len(fields)+2)
	lines = append(lines, c.styles.CardName.Render(clip(name, width)))
	for _, f := range fields {
		label := "  " + f[0] + ": "
		value := clip(f[1], width-len(label))
		lines = append(lines, c.styles.CardLabel.Render(label)+c.styles.CardValue.Render(value))
	}
	return append(lines, "")
}

// PostLine renders one row of the posts list
func (c *CardRenderer) PostLine(p domain.Post, selected bool, width int) string {
	text := clip(fmt.Sprintf("%3d  %s", p.ID, p.Title), width-2)
	if selected {
		return c.styles.Highlight.Render("> " + text)
	}
	return "  " + text
}

// Comment renders one row of a comment
func (c *CardRenderer) Comment(cm domain.Comment, width int) string {
	body := strings.ReplaceAll(cm.Body, "\n", " ")
	return clip(c.styles.CardLabel.Render(cm.Email+": ")+body, width)
}

func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
