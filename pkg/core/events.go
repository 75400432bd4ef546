package core

import "fmt"

// EventType classifies progress events emitted during a generation run.
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventItemBuilt    EventType = "item_built"
	EventRunCompleted EventType = "run_completed"
)

// Event is a progress notification. Consumers that fall behind miss events
// rather than stalling the run.
type Event struct {
	Type     EventType
	List     string
	Item     int // item IntID, for item-scoped events
	Versions int // historical version nodes built with the item
	Files    int // descriptor count, for run-scoped events
	Bytes    int // package size, for run-scoped events
}

func (e Event) String() string {
	switch e.Type {
	case EventItemBuilt:
		return fmt.Sprintf("%s: item %d (%d versions)", e.Type, e.Item, e.Versions)
	case EventRunCompleted:
		return fmt.Sprintf("%s: %s (%d files, %d bytes)", e.Type, e.List, e.Files, e.Bytes)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.List)
	}
}
