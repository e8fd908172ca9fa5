// Package pager grows an ordered window of paginated records outward from an
// anchor page. Each direction has its own cursor, in-flight flag and error;
// the two directions never wait on each other.
package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
)

// Page is one fetched page and the cursors it reported
type Page[T any] struct {
	Cursor   string // cursor the page was fetched at
	Results  []T
	Next     string // "" when there is no next page
	Previous string // "" when there is no previous page
}

// Fetcher loads the page at cursor
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, cursor string) (Page[T], error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

func (f FetcherFunc[T]) FetchPage(ctx context.Context, cursor string) (Page[T], error) {
	return f(ctx, cursor)
}

// DirectionError is a failed fetch in one direction
type DirectionError struct {
	Direction domain.Direction
	Cursor    string
	Err       error
}

func (e *DirectionError) Error() string {
	return fmt.Sprintf("%s fetch at %q failed: %v", e.Direction, e.Cursor, e.Err)
}

func (e *DirectionError) Unwrap() error { return e.Err }

// ErrInitialFetch wraps the error of a failed anchor fetch
var ErrInitialFetch = errors.New("initial fetch failed")

// Snapshot is the derived fetch state at one instant
type Snapshot struct {
	Initialized        bool
	IsLoadingInitial   bool
	IsError            bool
	Err                error
	IsFetchingForward  bool
	IsFetchingBackward bool
	ForwardErr         error
	BackwardErr        error
	HasNext            bool
	HasPrevious        bool
	Pages              int
	Records            int
}

// IsFetching reports whether any fetch is in flight
func (s Snapshot) IsFetching() bool {
	return s.IsLoadingInitial || s.IsFetchingForward || s.IsFetchingBackward
}

// Options configures a Pager
type Options struct {
	Name string            // used in logs and events
	Bus  eventbus.EventBus // optional
}

// Pager is the bidirectional page collection controller
type Pager[T any] struct {
	fetcher Fetcher[T]
	anchor  string
	name    string
	bus     eventbus.EventBus

	mu             sync.Mutex
	pages          []Page[T]
	next           string
	previous       string
	initialized    bool
	loadingInitial bool
	initErr        error
	fetching       [2]bool
	errs           [2]error
	closed         bool
}

// New creates a pager that will start at anchor
func New[T any](fetcher Fetcher[T], anchor string, opts Options) *Pager[T] {
	name := opts.Name
	if name == "" {
		name = "pager"
	}
	return &Pager[T]{
		fetcher: fetcher,
		anchor:  anchor,
		name:    name,
		bus:     opts.Bus,
	}
}

// Anchor returns the anchor cursor
func (p *Pager[T]) Anchor() string { return p.anchor }

// Initialize fetches the anchor page. It is a no-op while the anchor is
// loading or once it has loaded; after a failure it may be called again.
func (p *Pager[T]) Initialize(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.loadingInitial || p.initialized {
		p.mu.Unlock()
		return nil
	}
	p.loadingInitial = true
	p.initErr = nil
	p.mu.Unlock()

	p.publish(domain.FetchStartedEvent{Source: p.name, Direction: domain.Forward, Cursor: p.anchor, Initial: true})
	start := time.Now()
	page, err := p.fetcher.FetchPage(ctx, p.anchor)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.loadingInitial = false
	if err != nil {
		p.initErr = fmt.Errorf("%w: %w", ErrInitialFetch, err)
		initErr := p.initErr
		p.mu.Unlock()

		p.logger(domain.Forward, p.anchor).Warnf("anchor fetch failed: %v", err)
		p.publish(domain.FetchFailedEvent{Source: p.name, Direction: domain.Forward, Cursor: p.anchor, Initial: true, Err: err})
		return initErr
	}
	page.Cursor = p.anchor
	p.pages = []Page[T]{page}
	p.next = page.Next
	p.previous = page.Previous
	p.initialized = true
	loaded := domain.PageLoadedEvent{
		Source: p.name, Direction: domain.Forward, Cursor: p.anchor, Initial: true,
		Records: len(page.Results), Pages: 1, Elapsed: time.Since(start),
	}
	p.mu.Unlock()

	p.publish(loaded)
	return nil
}

// LoadNext fetches the page after the tail and appends it. It returns false
// without fetching when there is no next page or a forward fetch is in flight.
func (p *Pager[T]) LoadNext(ctx context.Context) (bool, error) {
	return p.load(ctx, domain.Forward)
}

// LoadPrevious fetches the page before the head and prepends it. It returns
// false without fetching when there is no previous page or a backward fetch is in flight.
func (p *Pager[T]) LoadPrevious(ctx context.Context) (bool, error) {
	return p.load(ctx, domain.Backward)
}

// OnTopVisible is the top sentinel callback
func (p *Pager[T]) OnTopVisible(ctx context.Context) (bool, error) {
	return p.LoadPrevious(ctx)
}

// OnBottomVisible is the bottom sentinel callback
func (p *Pager[T]) OnBottomVisible(ctx context.Context) (bool, error) {
	return p.LoadNext(ctx)
}

func (p *Pager[T]) load(ctx context.Context, dir domain.Direction) (bool, error) {
	p.mu.Lock()
	if p.closed || !p.initialized || p.fetching[dir] {
		p.mu.Unlock()
		return false, nil
	}
	cursor := p.cursorLocked(dir)
	if cursor == "" {
		p.mu.Unlock()
		return false, nil
	}
	p.fetching[dir] = true
	p.errs[dir] = nil
	p.mu.Unlock()

	p.publish(domain.FetchStartedEvent{Source: p.name, Direction: dir, Cursor: cursor})
	start := time.Now()
	page, err := p.fetcher.FetchPage(ctx, cursor)

	p.mu.Lock()
	p.fetching[dir] = false
	if p.closed {
		p.mu.Unlock()
		return true, nil
	}
	if err != nil {
		dirErr := &DirectionError{Direction: dir, Cursor: cursor, Err: err}
		p.errs[dir] = dirErr
		p.mu.Unlock()

		p.logger(dir, cursor).Warnf("fetch failed: %v", err)
		p.publish(domain.FetchFailedEvent{Source: p.name, Direction: dir, Cursor: cursor, Err: err})
		return true, dirErr
	}

	page.Cursor = cursor
	if dir == domain.Forward {
		p.pages = append(p.pages, page)
		p.next = page.Next
	} else {
		p.pages = append([]Page[T]{page}, p.pages...)
		p.previous = page.Previous
	}
	loaded := domain.PageLoadedEvent{
		Source: p.name, Direction: dir, Cursor: cursor,
		Records: len(page.Results), Pages: len(p.pages), Elapsed: time.Since(start),
	}
	p.mu.Unlock()

	p.logger(dir, cursor).Debugf("loaded %d records", loaded.Records)
	p.publish(loaded)
	return true, nil
}

func (p *Pager[T]) cursorLocked(dir domain.Direction) string {
	if dir == domain.Forward {
		return p.next
	}
	return p.previous
}

// Snapshot returns the current fetch state
func (p *Pager[T]) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	records := 0
	for _, pg := range p.pages {
		records += len(pg.Results)
	}
	return Snapshot{
		Initialized:        p.initialized,
		IsLoadingInitial:   p.loadingInitial,
		IsError:            p.initErr != nil,
		Err:                p.initErr,
		IsFetchingForward:  p.fetching[domain.Forward],
		IsFetchingBackward: p.fetching[domain.Backward],
		ForwardErr:         p.errs[domain.Forward],
		BackwardErr:        p.errs[domain.Backward],
		HasNext:            p.initialized && p.next != "",
		HasPrevious:        p.initialized && p.previous != "",
		Pages:              len(p.pages),
		Records:            records,
	}
}

// Pages returns a copy of the page collection in display order
func (p *Pager[T]) Pages() []Page[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Page[T](nil), p.pages...)
}

// Records returns all records in display order
func (p *Pager[T]) Records() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []T
	for _, pg := range p.pages {
		out = append(out, pg.Results...)
	}
	return out
}

// Close ends the session. Fetches that complete afterwards are discarded.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *Pager[T]) publish(e domain.DomainEvent) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

func (p *Pager[T]) logger(dir domain.Direction, cursor string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"component": "pager",
		"pager":     p.name,
		"direction": dir.String(),
		"cursor":    cursor,
	})
}
