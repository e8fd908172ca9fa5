package cli

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"swscroll/internal/ui"
	inputtypes "swscroll/internal/ui/input/types"
)

// parseScreen maps the optional positional argument to a screen
func parseScreen(name string) (inputtypes.Screen, error) {
	if name == "" {
		return inputtypes.ScreenHome, nil
	}
	s := inputtypes.Screen(name)
	if s == inputtypes.ScreenHome || slices.Contains(inputtypes.Screens, s) {
		return s, nil
	}
	return "", fmt.Errorf("unknown screen %q (want home, starships, species, people or posts)", name)
}

func runTUI(ctx context.Context, opts *Options, screenName string) error {
	screen, err := parseScreen(screenName)
	if err != nil {
		return err
	}

	a, err := newApp(opts, "")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ui.Deps{
		Context: ctx,
		Config:  a.cfg,
		Bus:     a.bus,
		SWAPI:   a.swapi,
		Blog:    a.blog,
		Cache:   a.cache,
	}, screen)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	model.SetProgram(p)
	model.SubscribeEvents()
	defer model.Close()

	logrus.WithField("component", "cli").Infof("starting UI on %s", screen)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	logrus.WithField("component", "cli").Info("UI exited normally")
	return nil
}
