package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventFetchStarted      = domain.EventFetchStarted
	EventPageLoaded        = domain.EventPageLoaded
	EventFetchFailed       = domain.EventFetchFailed
	EventAutoScrollChanged = domain.EventAutoScrollChanged
	EventMutationCompleted = domain.EventMutationCompleted
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type FetchStartedEvent = domain.FetchStartedEvent
type PageLoadedEvent = domain.PageLoadedEvent
type FetchFailedEvent = domain.FetchFailedEvent
type AutoScrollChangedEvent = domain.AutoScrollChangedEvent
type MutationCompletedEvent = domain.MutationCompletedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventAutoScrollChanged:
		// too chatty for the log
	default:
		logrus.WithField("component", "eventbus").Debugf("publishing %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		logrus.WithField("component", "eventbus").Warnf("channel full, dropping event %s", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and drops undelivered events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// each handler gets its own goroutine
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							logrus.WithField("component", "eventbus").
								Errorf("handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
