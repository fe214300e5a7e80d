package core

import "fmt"

// EventType represents the kind of change in the collection.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventReorder EventType = "REORDER"
	EventReload  EventType = "RELOAD"  // storage changed outside the process
	EventBackend EventType = "BACKEND" // storage backend replaced
)

// Event is the aggregate "changed" notification emitted by the Manager.
// ID is empty for collection-wide changes.
type Event struct {
	Type      EventType
	ID        Identifier
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle Event interface).
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
