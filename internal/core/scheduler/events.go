package scheduler

import "time"

// EventType defines the type of Scheduler event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventPauseChange  EventType = "pause_change"
	EventIdleReset    EventType = "idle_reset"
	EventIdleError    EventType = "idle_error"
	EventConfigChange EventType = "config_change"
)

// Event represents a Scheduler update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Message  string
	At       time.Time
}
