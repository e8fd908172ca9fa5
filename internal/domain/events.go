package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFetchStarted      EventType = "FetchStarted"
	EventPageLoaded        EventType = "PageLoaded"
	EventFetchFailed       EventType = "FetchFailed"
	EventAutoScrollChanged EventType = "AutoScrollChanged"
	EventMutationCompleted EventType = "MutationCompleted"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FetchStartedEvent is emitted when a pager starts fetching a page
type FetchStartedEvent struct {
	Source    string
	Direction Direction
	Cursor    string
	Initial   bool
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// PageLoadedEvent is emitted when a page has been merged into a collection
type PageLoadedEvent struct {
	Source    string
	Direction Direction
	Cursor    string
	Initial   bool
	Records   int
	Pages     int
	Elapsed   time.Duration
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// FetchFailedEvent is emitted when a page fetch fails
type FetchFailedEvent struct {
	Source    string
	Direction Direction
	Cursor    string
	Initial   bool
	Err       error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// AutoScrollChangedEvent is emitted when hover-driven scrolling starts or stops
type AutoScrollChangedEvent struct {
	Up     bool
	Active bool
}

func (e AutoScrollChangedEvent) Type() EventType { return EventAutoScrollChanged }

// MutationCompletedEvent is emitted when a blog mutation finishes
type MutationCompletedEvent struct {
	Kind   string // "delete" or "update"
	PostID int
	Err    error
}

func (e MutationCompletedEvent) Type() EventType { return EventMutationCompleted }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
