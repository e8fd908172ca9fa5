// Package autoscroll drives continuous scrolling while a direction is held.
package autoscroll

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
)

// Defaults match a 60 fps frame and a small step
const (
	DefaultInterval = 16 * time.Millisecond
	DefaultStep     = 10
)

// Direction of travel
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Tick is one displacement. Gen identifies the ticker that produced it.
type Tick struct {
	Delta int
	Gen   uint64
}

// Options configures a Scroller
type Options struct {
	Interval time.Duration
	Step     int
	Bus      eventbus.EventBus // optional
}

// Scroller runs at most one ticker. Every state change stops the running
// ticker before a new one starts; Up takes precedence when both are held.
type Scroller struct {
	interval time.Duration
	step     int
	emit     func(Tick)
	bus      eventbus.EventBus

	mu      sync.Mutex
	up      bool
	down    bool
	gen     uint64
	stop    chan struct{}
	stopped bool

	running atomic.Int32
}

// New creates a Scroller that calls emit from its ticker goroutine
func New(emit func(Tick), opts Options) *Scroller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	return &Scroller{interval: opts.Interval, step: opts.Step, emit: emit, bus: opts.Bus}
}

// Set activates or deactivates a direction
func (s *Scroller) Set(dir Direction, active bool) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	flag := &s.down
	if dir == Up {
		flag = &s.up
	}
	if *flag == active {
		s.mu.Unlock()
		return
	}
	*flag = active
	s.restartLocked()
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"component": "autoscroll", "direction": dir.String()}).Debugf("active=%t", active)
	if s.bus != nil {
		s.bus.Publish(domain.AutoScrollChangedEvent{Up: dir == Up, Active: active})
	}
}

// Toggle flips a direction and returns its new state
func (s *Scroller) Toggle(dir Direction) bool {
	active := !s.IsActive(dir)
	s.Set(dir, active)
	return active
}

// IsActive reports whether dir is held
func (s *Scroller) IsActive(dir Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir == Up {
		return s.up
	}
	return s.down
}

// Active reports whether any direction is held
func (s *Scroller) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.up || s.down
}

// Valid reports whether t came from the current ticker. Ticks that were
// already in flight when the state changed are not valid.
func (s *Scroller) Valid(t Tick) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && (s.up || s.down) && t.Gen == s.gen
}

// Running reports the number of live ticker goroutines
func (s *Scroller) Running() int { return int(s.running.Load()) }

// Stop clears both directions and stops the ticker for good
func (s *Scroller) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.up, s.down = false, false
	s.restartLocked()
	s.stopped = true
}

func (s *Scroller) restartLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.gen++
	if s.stopped || (!s.up && !s.down) {
		return
	}

	delta := s.step
	if s.up {
		delta = -s.step
	}
	stop := make(chan struct{})
	s.stop = stop
	s.running.Add(1)
	go s.run(stop, Tick{Delta: delta, Gen: s.gen})
}

func (s *Scroller) run(stop chan struct{}, tick Tick) {
	defer s.running.Add(-1)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			select {
			case <-stop:
				return
			default:
			}
			s.emit(tick)
		}
	}
}
