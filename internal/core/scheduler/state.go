package scheduler

import (
	"time"

	"timeout/internal/core/model"
)

// Kind tags the variant held by State.
type Kind string

const (
	KindWorking Kind = "working"
	KindInBreak Kind = "in_break"
	// KindIdle is reserved; no transition currently leads to it.
	KindIdle Kind = "idle"
)

// Break is the payload of an in-progress break.
type Break struct {
	Config  model.BreakConfig
	EndTime time.Time
}

// State is the scheduler mode. Break is set only when Kind is KindInBreak.
type State struct {
	Kind  Kind
	Break *Break
}

// Working returns the working state.
func Working() State {
	return State{Kind: KindWorking}
}

// InBreak returns a state holding the given break.
func InBreak(config model.BreakConfig, endTime time.Time) State {
	return State{Kind: KindInBreak, Break: &Break{Config: config, EndTime: endTime}}
}

// Idle returns the reserved idle state.
func Idle() State {
	return State{Kind: KindIdle}
}

// IsWorking reports whether no break is active.
func (state State) IsWorking() bool {
	return state.Kind == KindWorking
}

// ActiveBreak returns the break in progress, if any.
func (state State) ActiveBreak() (Break, bool) {
	if state.Kind != KindInBreak || state.Break == nil {
		return Break{}, false
	}
	return *state.Break, true
}

func (state State) clone() State {
	if state.Break == nil {
		return state
	}
	payload := *state.Break
	return State{Kind: state.Kind, Break: &payload}
}

// Snapshot is a consistent copy of everything observers may display.
type Snapshot struct {
	State       State
	Paused      bool
	PausedUntil time.Time

	// NextBreak is meaningful only when HasNextBreak is true.
	NextBreak    time.Time
	HasNextBreak bool
	NextBreakIn  time.Duration

	Progress      float64
	Remaining     time.Duration
	RemainingText string

	At time.Time
}
