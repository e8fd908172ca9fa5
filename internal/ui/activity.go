package ui

import (
	"fmt"
	"strings"
	"time"

	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
)

const activityLimit = 200

type activityEntry struct {
	at   time.Time
	text string
}

// ActivityLog keeps the most recent domain events as display lines
type ActivityLog struct {
	entries []activityEntry
}

// NewActivityLog creates an empty log
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Add records an event. Config events are skipped.
func (a *ActivityLog) Add(at time.Time, e eventbus.DomainEvent) {
	text := describeEvent(e)
	if text == "" {
		return
	}
	a.entries = append(a.entries, activityEntry{at: at, text: text})
	if len(a.entries) > activityLimit {
		a.entries = a.entries[len(a.entries)-activityLimit:]
	}
}

// Len returns the number of kept entries
func (a *ActivityLog) Len() int { return len(a.entries) }

// Render returns the last n entries, oldest first
func (a *ActivityLog) Render(n int) string {
	if len(a.entries) == 0 {
		return "Activity\n\nNo activity yet"
	}
	start := max(len(a.entries)-n, 0)
	var b strings.Builder
	b.WriteString("Activity")
	for _, e := range a.entries[start:] {
		b.WriteString("\n")
		b.WriteString(e.at.Format("15:04:05.000"))
		b.WriteString("  ")
		b.WriteString(e.text)
	}
	return b.String()
}

func describeEvent(e eventbus.DomainEvent) string {
	switch ev := e.(type) {
	case domain.FetchStartedEvent:
		if ev.Initial {
			return fmt.Sprintf("%s: loading %s", ev.Source, ev.Cursor)
		}
		return fmt.Sprintf("%s: fetching %s %s", ev.Source, ev.Direction, ev.Cursor)
	case domain.PageLoadedEvent:
		return fmt.Sprintf("%s: %s page loaded, %d records, %d pages (%s)",
			ev.Source, ev.Direction, ev.Records, ev.Pages, ev.Elapsed.Round(time.Millisecond))
	case domain.FetchFailedEvent:
		return fmt.Sprintf("%s: %s fetch failed: %v", ev.Source, ev.Direction, ev.Err)
	case domain.MutationCompletedEvent:
		if ev.Err != nil {
			return fmt.Sprintf("posts: %s of post %d failed: %v", ev.Kind, ev.PostID, ev.Err)
		}
		return fmt.Sprintf("posts: %s of post %d done", ev.Kind, ev.PostID)
	case domain.AutoScrollChangedEvent:
		dir := "down"
		if ev.Up {
			dir = "up"
		}
		state := "stopped"
		if ev.Active {
			state = "started"
		}
		return fmt.Sprintf("auto-scroll %s %s", dir, state)
	}
	return ""
}
