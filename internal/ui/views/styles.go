package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Debug         lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	LogBox        lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Highlight     lipgloss.Style
	CardName      lipgloss.Style
	CardLabel     lipgloss.Style
	CardValue     lipgloss.Style
	Arrow         lipgloss.Style
	ArrowActive   lipgloss.Style
	ArrowDisabled lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Debug:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Confirm:  lipgloss.NewStyle().Bold(true),
		Dim:      lipgloss.NewStyle().Faint(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		LogBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("99")),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(0, 1),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		CardName:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		CardLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		CardValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Arrow:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		ArrowActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("78")).Bold(true),
		ArrowDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
