package ui

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"swscroll/internal/autoscroll"
	"swscroll/internal/domain"
	"swscroll/internal/pager"
	"swscroll/internal/sentinel"
	"swscroll/internal/ui/input/types"
	"swscroll/internal/ui/views"
)

// feedScreen is a scrolled list backed by a pager
type feedScreen interface {
	Screen() types.Screen
	Title() string
	Start() tea.Cmd
	Resize(width, bodyRows int) tea.Cmd
	ScrollBy(px int) tea.Cmd
	ScrollToEdge(top bool) tea.Cmd
	Jump(up bool) tea.Cmd
	LoadMore() tea.Cmd
	Retry() tea.Cmd
	HandleResult(msg pageResultMsg) tea.Cmd
	ToggleAuto(up bool)
	AutoTick(t autoscroll.Tick) tea.Cmd
	Hover(up, down bool)
	HasArrows() bool
	Snapshot() pager.Snapshot
	View() feedView
	JSON() ([]byte, error)
	Close()
}

// feedView is what the renderer needs from a feed
type feedView struct {
	debug  string
	body   []string
	arrows *views.ArrowState
}

// feedKind describes how a feed grows
type feedKind struct {
	screen         types.Screen
	title          string
	topSentinel    bool // loads previous pages when visible
	bottomSentinel bool // loads next pages when visible; otherwise "load more" is manual
	arrows         bool // hover/click scroll buttons
	debug          bool // show cursor state line
}

var (
	starshipsKind = feedKind{
		screen: types.ScreenStarships, title: "Starships",
		topSentinel: true, bottomSentinel: true, arrows: true, debug: true,
	}
	speciesKind = feedKind{screen: types.ScreenSpecies, title: "Species"}
	peopleKind  = feedKind{screen: types.ScreenPeople, title: "People", bottomSentinel: true}
)

// feedSettings are the scroll parameters from config
type feedSettings struct {
	rowHeight  int // px per terminal row
	jump       int // px per jump
	threshold  float64
	autoscroll autoscroll.Options
}

type feed[T any] struct {
	kind     feedKind
	ctx      context.Context
	pager    *pager.Pager[T]
	render   func(T, int) []string
	send     func(tea.Msg)
	settings feedSettings

	observer  *sentinel.Observer
	disposers []func()
	scroller  *autoscroll.Scroller
	wants     [2]bool
	armed     [2]bool // a failed direction may reload once its sentinel has left the view

	width       int
	bodyRows    int
	scrollPx    int
	rows        []string
	initialized bool   // rows hold records, not the loading or error placeholder
	headPage    string // cursor of the first page at the last layout
	hoverUp     bool
	hoverDown   bool
}

func newFeed[T any](ctx context.Context, kind feedKind, p *pager.Pager[T], render func(T, int) []string, settings feedSettings, send func(tea.Msg)) *feed[T] {
	if settings.rowHeight <= 0 {
		settings.rowHeight = 20
	}
	if settings.jump <= 0 {
		settings.jump = 300
	}
	if send == nil {
		send = func(tea.Msg) {}
	}
	f := &feed[T]{
		kind:     kind,
		ctx:      ctx,
		pager:    p,
		render:   render,
		send:     send,
		settings: settings,
		observer: sentinel.NewObserver(settings.threshold),
		width:    80,
		bodyRows: 10,
		armed:    [2]bool{true, true},
	}
	f.scroller = autoscroll.New(func(t autoscroll.Tick) {
		f.send(autoScrollMsg{screen: kind.screen, tick: t})
	}, settings.autoscroll)

	if kind.topSentinel {
		f.disposers = append(f.disposers, f.observer.Observe("top", f.topBounds, func() { f.wants[domain.Backward] = true }))
	}
	if kind.bottomSentinel {
		f.disposers = append(f.disposers, f.observer.Observe("bottom", f.bottomBounds, func() { f.wants[domain.Forward] = true }))
	}
	f.layout()
	return f
}

func (f *feed[T]) Screen() types.Screen { return f.kind.screen }
func (f *feed[T]) Title() string        { return f.kind.title }
func (f *feed[T]) HasArrows() bool      { return f.kind.arrows }

func (f *feed[T]) Snapshot() pager.Snapshot { return f.pager.Snapshot() }

// Start fetches the anchor page
func (f *feed[T]) Start() tea.Cmd {
	screen := f.kind.screen
	return func() tea.Msg {
		err := f.pager.Initialize(f.ctx)
		return pageResultMsg{screen: screen, direction: domain.Forward, initial: true, started: true, err: err}
	}
}

func (f *feed[T]) Retry() tea.Cmd {
	snap := f.pager.Snapshot()
	switch {
	case snap.IsError:
		return f.Start()
	case snap.ForwardErr != nil:
		return f.loadCmd(domain.Forward)
	case snap.BackwardErr != nil:
		return f.loadCmd(domain.Backward)
	}
	return nil
}

// LoadMore is the manual forward trigger
func (f *feed[T]) LoadMore() tea.Cmd {
	snap := f.pager.Snapshot()
	if !snap.HasNext || snap.IsFetchingForward {
		return nil
	}
	return f.loadCmd(domain.Forward)
}

func (f *feed[T]) loadCmd(dir domain.Direction) tea.Cmd {
	screen := f.kind.screen
	return func() tea.Msg {
		var started bool
		var err error
		if dir == domain.Forward {
			started, err = f.pager.OnBottomVisible(f.ctx)
		} else {
			started, err = f.pager.OnTopVisible(f.ctx)
		}
		return pageResultMsg{screen: screen, direction: dir, started: started, err: err}
	}
}

// HandleResult re-lays out after a load and re-checks the sentinels
func (f *feed[T]) HandleResult(msg pageResultMsg) tea.Cmd {
	if !msg.started {
		return nil
	}
	if msg.err != nil && !msg.initial {
		f.armed[msg.direction] = false
	}
	f.layout()
	return f.evaluate()
}

func (f *feed[T]) Resize(width, bodyRows int) tea.Cmd {
	f.width = width
	f.bodyRows = max(bodyRows, 1)
	f.layout()
	return f.evaluate()
}

func (f *feed[T]) ScrollBy(px int) tea.Cmd {
	f.scrollPx += px
	f.clamp()
	return f.evaluate()
}

func (f *feed[T]) ScrollToEdge(top bool) tea.Cmd {
	if top {
		f.scrollPx = 0
	} else {
		f.scrollPx = f.maxScroll()
	}
	return f.evaluate()
}

// Jump scrolls one jump without touching fetch state
func (f *feed[T]) Jump(up bool) tea.Cmd {
	if up {
		return f.ScrollBy(-f.settings.jump)
	}
	return f.ScrollBy(f.settings.jump)
}

func (f *feed[T]) ToggleAuto(up bool) {
	if !f.kind.arrows {
		return
	}
	f.scroller.Toggle(scrollDir(up))
}

// Hover follows the pointer over the arrow buttons. Entering a button starts
// auto-scroll unless that direction is already fetching; leaving stops it.
func (f *feed[T]) Hover(up, down bool) {
	if !f.kind.arrows {
		return
	}
	snap := f.pager.Snapshot()
	if up != f.hoverUp {
		f.hoverUp = up
		if !up || !snap.IsFetchingBackward {
			f.scroller.Set(autoscroll.Up, up)
		}
	}
	if down != f.hoverDown {
		f.hoverDown = down
		if !down || !snap.IsFetchingForward {
			f.scroller.Set(autoscroll.Down, down)
		}
	}
}

func (f *feed[T]) AutoTick(t autoscroll.Tick) tea.Cmd {
	if !f.scroller.Valid(t) {
		return nil
	}
	return f.ScrollBy(t.Delta)
}

func (f *feed[T]) JSON() ([]byte, error) {
	return json.MarshalIndent(f.pager.Records(), "", "  ")
}

// Close tears down the ticker and the observations and ends the pager session
func (f *feed[T]) Close() {
	f.scroller.Stop()
	for _, dispose := range f.disposers {
		dispose()
	}
	f.disposers = nil
	f.pager.Close()
}

func (f *feed[T]) View() feedView {
	snap := f.pager.Snapshot()
	v := feedView{}
	if f.kind.debug {
		v.debug = fmt.Sprintf("hasPrevious: %t · hasNext: %t · pages: %d · records: %d · scroll: %dpx",
			snap.HasPrevious, snap.HasNext, snap.Pages, snap.Records, f.scrollPx)
	} else {
		v.debug = fmt.Sprintf("records: %d", snap.Records)
	}

	first := f.scrollPx / f.settings.rowHeight
	end := min(first+f.bodyRows, len(f.rows))
	if first < end {
		v.body = append([]string(nil), f.rows[first:end]...)
		// sentinel labels follow the live fetch state
		if f.initialized {
			if f.kind.topSentinel && first == 0 {
				v.body[0] = f.topLabel(snap)
			}
			if end == len(f.rows) {
				v.body[len(v.body)-1] = f.bottomLabel(snap)
			}
		}
	}

	if f.kind.arrows {
		v.arrows = &views.ArrowState{
			UpActive:     f.scroller.IsActive(autoscroll.Up),
			DownActive:   f.scroller.IsActive(autoscroll.Down),
			UpDisabled:   snap.IsFetchingBackward,
			DownDisabled: snap.IsFetchingForward,
		}
	}
	return v
}

// layout rebuilds the content rows. When pages were prepended since the last
// layout the scroll offset grows by their height so visible rows stay put.
func (f *feed[T]) layout() {
	snap := f.pager.Snapshot()
	cards := views.ContentWidth(f.width, f.kind.arrows)

	f.initialized = snap.Initialized
	if !snap.Initialized {
		f.rows = f.rows[:0]
		switch {
		case snap.IsError:
			f.rows = append(f.rows, "Error! "+snap.Err.Error(), "Press r to retry")
		default:
			f.rows = append(f.rows, "Loading...")
		}
		f.scrollPx = 0
		return
	}

	pages := f.pager.Pages()
	rows := make([]string, 0, len(f.rows)+8)
	if f.kind.topSentinel {
		rows = append(rows, f.topLabel(snap))
	}

	shifted := 0
	seenHead := f.headPage == ""
	for _, pg := range pages {
		if pg.Cursor == f.headPage {
			seenHead = true
		}
		for _, rec := range pg.Results {
			lines := f.render(rec, cards)
			if !seenHead {
				shifted += len(lines)
			}
			rows = append(rows, lines...)
		}
	}
	rows = append(rows, f.bottomLabel(snap))

	f.rows = rows
	if len(pages) > 0 {
		f.headPage = pages[0].Cursor
	}
	f.scrollPx += shifted * f.settings.rowHeight
	f.clamp()
}

func (f *feed[T]) topLabel(snap pager.Snapshot) string {
	switch {
	case snap.IsFetchingBackward:
		return "Loading previous..."
	case snap.BackwardErr != nil:
		return "Error loading previous: " + snap.BackwardErr.Error()
	case !snap.HasPrevious:
		return "No more previous data"
	}
	return "Load previous"
}

func (f *feed[T]) bottomLabel(snap pager.Snapshot) string {
	switch {
	case snap.IsFetchingForward:
		return "Loading more..."
	case snap.ForwardErr != nil:
		return "Error loading more: " + snap.ForwardErr.Error()
	case !snap.HasNext:
		return "Nothing more to load"
	case !f.kind.bottomSentinel:
		return "[m] Load more"
	}
	return "Load more"
}

func (f *feed[T]) topBounds() (sentinel.Span, bool) {
	if !f.initialized {
		return sentinel.Span{}, false
	}
	return sentinel.Span{Top: 0, Height: f.settings.rowHeight}, true
}

func (f *feed[T]) bottomBounds() (sentinel.Span, bool) {
	if !f.initialized || len(f.rows) == 0 {
		return sentinel.Span{}, false
	}
	return sentinel.Span{Top: (len(f.rows) - 1) * f.settings.rowHeight, Height: f.settings.rowHeight}, true
}

func (f *feed[T]) viewport() sentinel.Span {
	return sentinel.Span{Top: f.scrollPx, Height: f.bodyRows * f.settings.rowHeight}
}

// evaluate runs the visibility check and turns sentinel hits into loads.
// A direction whose last fetch failed reloads only after its sentinel has
// been scrolled out of view and back in, or on Retry.
func (f *feed[T]) evaluate() tea.Cmd {
	f.wants = [2]bool{}
	f.observer.Evaluate(f.viewport())

	snap := f.pager.Snapshot()
	var cmds []tea.Cmd
	if cmd := f.trigger(domain.Backward, snap.HasPrevious, snap.IsFetchingBackward, snap.BackwardErr); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := f.trigger(domain.Forward, snap.HasNext, snap.IsFetchingForward, snap.ForwardErr); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f *feed[T]) trigger(dir domain.Direction, has, fetching bool, err error) tea.Cmd {
	if !f.wants[dir] {
		f.armed[dir] = true
		return nil
	}
	if !has || fetching || (err != nil && !f.armed[dir]) {
		return nil
	}
	f.armed[dir] = false
	return f.loadCmd(dir)
}

func (f *feed[T]) maxScroll() int {
	return max(len(f.rows)-f.bodyRows, 0) * f.settings.rowHeight
}

func (f *feed[T]) clamp() {
	f.scrollPx = min(max(f.scrollPx, 0), f.maxScroll())
}

func scrollDir(up bool) autoscroll.Direction {
	if up {
		return autoscroll.Up
	}
	return autoscroll.Down
}
