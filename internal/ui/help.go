package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// renderHelpContent renders the help information
func (r *HelpRenderer) renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	line := func(k, d string) {
		help.WriteString(fmt.Sprintf("  %s%s\n", keyStyle.Render(k), descStyle.Render(d)))
	}

	help.WriteString(titleStyle.Render("swscroll Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Scrolling"))
	help.WriteString("\n")
	line("↑/↓, k/j", "Scroll one row")
	line("PgUp/PgDn", "Jump 300px")
	line("gg/G", "Go to top/bottom")
	line("U / D", "Toggle auto-scroll up/down")
	line("mouse", "Hover ▲/▼ to auto-scroll, click to jump")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Lists"))
	help.WriteString("\n")
	line("m, enter", "Load more (species)")
	line("r", "Retry a failed load")
	line("v", "View loaded records as JSON")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Posts"))
	help.WriteString("\n")
	line("←/→", "Previous/next page")
	line("enter", "Show post and comments")
	line("x", "Delete post")
	line("t", "Edit post title")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	line("1-4", "Open a screen from home")
	line("l", "Activity log")
	line("esc", "Back to home")
	line("?", "Toggle this help")
	help.WriteString(fmt.Sprintf("  %s%s", keyStyle.Render("q"), descStyle.Render("Quit")))

	return help.String()
}

// PagerOps shows text in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowInPager hands the terminal to ov until the user quits it
func (p *PagerOps) ShowInPager(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Give ov time to leave the alternate screen before we take it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
