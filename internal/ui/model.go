package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"swscroll/internal/autoscroll"
	"swscroll/internal/blog"
	"swscroll/internal/config"
	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
	"swscroll/internal/pager"
	"swscroll/internal/query"
	"swscroll/internal/swapi"
	"swscroll/internal/ui/input"
	inputtypes "swscroll/internal/ui/input/types"
	"swscroll/internal/ui/views"
)

// Deps are the services the UI drives
type Deps struct {
	Context context.Context
	Config  *config.Config
	Bus     eventbus.EventBus
	SWAPI   *swapi.Client
	Blog    *blog.Service
	Cache   *query.Client
}

// Model represents the UI state
type Model struct {
	ctx    context.Context
	bus    eventbus.EventBus
	config *config.Config
	swapi  *swapi.Client
	blog   *blog.Service
	cache  *query.Client

	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	inPagerMode bool // tracks if ov owns the terminal

	screen    inputtypes.Screen
	homeIndex int
	feed      feedScreen   // set on starships, species and people
	posts     *postsScreen // set on posts

	showHelp   bool
	showLog    bool
	status     string
	statusKind views.StatusKind

	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	hitmap       *HitMap
	activity     *ActivityLog
	pagerOps     *PagerOps
	unsubscribe  []func()

	// Program reference for terminal management and async messages
	program *tea.Program
}

// NewModel creates a new UI model showing start
func NewModel(deps Deps, start inputtypes.Screen) *Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	if start == "" {
		start = inputtypes.ScreenHome
	}

	return &Model{
		ctx:          ctx,
		bus:          deps.Bus,
		config:       cfg,
		swapi:        deps.SWAPI,
		blog:         deps.Blog,
		cache:        deps.Cache,
		help:         help.New(),
		spinner:      sp,
		screen:       start,
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(),
		hitmap:       NewHitMap(),
		activity:     NewActivityLog(),
		pagerOps:     NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pagerOps.SetProgram(p)
}

// SubscribeEvents forwards domain events to the program as EventMsg
func (m *Model) SubscribeEvents() {
	if m.bus == nil {
		return
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventFetchStarted,
		eventbus.EventPageLoaded,
		eventbus.EventFetchFailed,
		eventbus.EventMutationCompleted,
		eventbus.EventAutoScrollChanged,
	} {
		m.unsubscribe = append(m.unsubscribe, m.bus.Subscribe(t, func(e eventbus.DomainEvent) {
			m.send(EventMsg{Event: e})
		}))
	}
}

// send delivers a message from outside the update loop
func (m *Model) send(msg tea.Msg) {
	if p := m.program; p != nil {
		p.Send(msg)
	}
}

// Close stops every timer and pager owned by the UI
func (m *Model) Close() {
	m.closeScreen()
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	start := m.screen
	m.screen = inputtypes.ScreenHome
	return tea.Batch(m.spinner.Tick, m.openScreen(start))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.resize()

	case tea.KeyMsg:
		// Popups take keys first
		if m.showLog {
			switch msg.String() {
			case "esc", "l", "q":
				m.showLog = false
			}
			return m, nil
		}
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	default:
		inputCmd := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(inputCmd, cmd)
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.activity.Add(time.Now(), msg.Event)
		return m, nil

	case spinner.TickMsg:
		// Stop the tick loop while ov owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case autoScrollMsg:
		if m.feed == nil || m.feed.Screen() != msg.screen {
			return m, nil
		}
		return m, m.feed.AutoTick(msg.tick)

	case pageResultMsg:
		if m.feed == nil || m.feed.Screen() != msg.screen {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			logrus.WithFields(logrus.Fields{
				"component": "ui",
				"screen":    msg.screen,
				"direction": msg.direction,
			}).Warnf("load failed: %v", msg.err)
		}
		return m, m.feed.HandleResult(msg)

	case postsLoadedMsg:
		if m.posts == nil {
			return m, nil
		}
		return m, m.posts.HandlePosts(msg)

	case commentsLoadedMsg:
		if m.posts != nil {
			m.posts.HandleComments(msg)
		}
		return m, nil

	case mutationDoneMsg:
		if m.posts == nil {
			return m, nil
		}
		text, kind := m.posts.HandleMutation(msg)
		return m, m.setStatus(text, kind)

	case jsonPagerMsg:
		if msg.err != nil {
			logrus.WithField("component", "ui").Errorf("json pager failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Failed to open pager: %v", msg.err), views.StatusError)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}
	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	m.layoutHitMap()

	state := views.ViewState{
		Width:       m.width,
		Height:      m.height,
		Prompt:      m.inputHandler.Prompt(),
		Status:      m.status,
		StatusKind:  m.statusKind,
		HelpView:    m.help.View(inputtypes.ScreenHelp{Keys: m.inputHandler.Keys(), Screen: m.screen}),
		ShowHelp:    m.showHelp,
		ShowLog:     m.showLog,
		HelpContent: m.helpRenderer.renderHelpContent(),
		LogContent:  m.activity.Render(views.BodyRows(m.height)),
	}
	if m.busy() {
		state.Indicator = m.spinner.View() + " loading"
	}

	switch {
	case m.feed != nil:
		fv := m.feed.View()
		state.Title = m.feed.Title()
		state.Debug = fv.debug
		state.Body = fv.body
		state.Arrows = fv.arrows
	case m.posts != nil:
		fv := m.posts.View(m.renderer.Styles(), m.renderer.Cards())
		state.Title = "Posts"
		state.Debug = fv.debug
		state.Body = fv.body
	default:
		state.Title = "swscroll"
		state.Debug = m.cacheLine()
		state.Body = m.homeBody()
	}

	return m.renderer.Render(state)
}

func (m *Model) cacheLine() string {
	if m.cache == nil {
		return ""
	}
	s := m.cache.Stats()
	return fmt.Sprintf("cache: %d entries · %d hits · %d misses · %d shared", s.Entries, s.Hits, s.Misses, s.Shared)
}

func (m *Model) busy() bool {
	switch {
	case m.feed != nil:
		snap := m.feed.Snapshot()
		return snap.IsFetching() || snap.IsLoadingInitial
	case m.posts != nil:
		return m.posts.IsLoading()
	}
	return false
}

func (m *Model) inputContext() *input.ModelContext {
	ctx := &input.ModelContext{CurrentScreen: m.screen}
	if m.posts != nil {
		ctx.SelectedPost = m.posts.Selected()
	}
	return ctx
}

func (m *Model) resize() tea.Cmd {
	rows := views.BodyRows(m.height)
	switch {
	case m.feed != nil:
		return m.feed.Resize(m.width, rows)
	case m.posts != nil:
		m.posts.Resize(m.width, rows)
	}
	return nil
}

// openScreen leaves the current screen and starts s
func (m *Model) openScreen(s inputtypes.Screen) tea.Cmd {
	if s == m.screen && (m.feed != nil || m.posts != nil) {
		return nil
	}
	m.closeScreen()
	m.screen = s
	m.showHelp = false
	m.showLog = false

	rows := views.BodyRows(m.height)
	cards := m.renderer.Cards()
	anchor := m.config.Pager.AnchorPage
	stale := m.config.Cache.StaleTime

	switch s {
	case inputtypes.ScreenStarships:
		p := swapi.NewPager[domain.Starship](m.swapi, m.cache, stale, swapi.Starships, anchor, pager.Options{Bus: m.bus})
		m.feed = newFeed(m.ctx, starshipsKind, p, cards.Starship, m.feedSettings(), m.send)
	case inputtypes.ScreenSpecies:
		p := swapi.NewPager[domain.Species](m.swapi, m.cache, stale, swapi.Species, 1, pager.Options{Bus: m.bus})
		m.feed = newFeed(m.ctx, speciesKind, p, cards.Species, m.feedSettings(), m.send)
	case inputtypes.ScreenPeople:
		p := swapi.NewPager[domain.Person](m.swapi, m.cache, stale, swapi.People, 1, pager.Options{Bus: m.bus})
		m.feed = newFeed(m.ctx, peopleKind, p, cards.Person, m.feedSettings(), m.send)
	case inputtypes.ScreenPosts:
		m.posts = newPostsScreen(m.ctx, m.blog)
		m.posts.Resize(m.width, rows)
		return m.posts.Start()
	default:
		m.screen = inputtypes.ScreenHome
		return nil
	}

	return tea.Batch(m.feed.Start(), m.feed.Resize(m.width, rows))
}

// closeScreen tears down the timers and observations of the current screen
func (m *Model) closeScreen() {
	if m.feed != nil {
		m.feed.Close()
		m.feed = nil
	}
	m.posts = nil
	m.inputHandler.Reset()
}

func (m *Model) feedSettings() feedSettings {
	sc := m.config.Scroll
	return feedSettings{
		rowHeight: sc.RowHeight,
		jump:      sc.Jump,
		threshold: m.config.Pager.VisibilityThreshold,
		autoscroll: autoscroll.Options{
			Interval: sc.AutoScrollInterval,
			Step:     sc.AutoScrollStep,
			Bus:      m.bus,
		},
	}
}

func (m *Model) rowHeight() int {
	if h := m.config.Scroll.RowHeight; h > 0 {
		return h
	}
	return 20
}

func (m *Model) setStatus(text string, kind views.StatusKind) tea.Cmd {
	m.status = text
	m.statusKind = kind
	if text == "" {
		return nil
	}
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
