// Package sentinel reports when marker regions of a scrolled document are
// visible in the viewport. Evaluation is level-triggered: a target that is
// still visible fires again on every Evaluate.
package sentinel

import (
	"sort"
	"sync"
)

// DefaultThreshold is the visible fraction at which a target fires
const DefaultThreshold = 0.5

// Span is a vertical extent in document coordinates
type Span struct {
	Top    int
	Height int
}

// Bottom is the first coordinate below the span
func (s Span) Bottom() int { return s.Top + s.Height }

// Ratio returns how much of target lies inside viewport, in [0,1].
// A zero-height target counts as fully visible when its top is inside the viewport.
func Ratio(target, viewport Span) float64 {
	if target.Height <= 0 {
		if target.Top >= viewport.Top && target.Top < viewport.Bottom() {
			return 1
		}
		return 0
	}
	top := max(target.Top, viewport.Top)
	bottom := min(target.Bottom(), viewport.Bottom())
	if bottom <= top {
		return 0
	}
	return float64(bottom-top) / float64(target.Height)
}

// BoundsFunc returns the target's current extent; ok is false while the
// target is not laid out
type BoundsFunc func() (span Span, ok bool)

type target struct {
	id       uint64
	name     string
	bounds   BoundsFunc
	callback func()
}

// Observer tracks targets against a viewport
type Observer struct {
	threshold float64

	mu      sync.Mutex
	targets map[uint64]target
	nextID  uint64
}

// NewObserver creates an observer. A threshold outside (0,1] uses DefaultThreshold.
func NewObserver(threshold float64) *Observer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Observer{threshold: threshold, targets: make(map[uint64]target)}
}

// Threshold returns the firing threshold
func (o *Observer) Threshold() float64 { return o.threshold }

// Observe registers a target and returns a func that removes it
func (o *Observer) Observe(name string, bounds BoundsFunc, callback func()) (dispose func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.targets[id] = target{id: id, name: name, bounds: bounds, callback: callback}

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.targets, id)
			o.mu.Unlock()
		})
	}
}

// Len returns the number of observed targets
func (o *Observer) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.targets)
}

// Evaluate fires the callback of every target whose visible ratio is at or
// above the threshold and returns their names in registration order.
func (o *Observer) Evaluate(viewport Span) []string {
	o.mu.Lock()
	list := make([]target, 0, len(o.targets))
	for _, t := range o.targets {
		list = append(list, t)
	}
	o.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })

	var fired []string
	for _, t := range list {
		span, ok := t.bounds()
		if !ok {
			continue
		}
		if Ratio(span, viewport) >= o.threshold {
			fired = append(fired, t.name)
			if t.callback != nil {
				t.callback()
			}
		}
	}
	return fired
}
