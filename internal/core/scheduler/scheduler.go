package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"timeout/internal/core/model"
)

// Options contains runtime options for Scheduler.
type Options struct {
	TickInterval time.Duration
	// Now is the clock used by commands; ticks carry their own time.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Scheduler is the break scheduling state machine. Ticks and commands are
// serialized by a single mutex.
type Scheduler struct {
	mu          sync.Mutex
	options     Options
	logger      zerolog.Logger
	configs     []model.BreakConfig
	lastBreak   map[uuid.UUID]time.Time
	state       State
	paused      bool
	pausedUntil time.Time
	lastTick    time.Time
	nextBreak   time.Time
	hasNext     bool
	progress    float64
	remaining   time.Duration
	idling      bool
	idleSource  IdleSource
	events      []chan Event
	stopCh      chan struct{}
	running     bool
}

// New creates a Scheduler in the working state with every break timer
// starting now.
func New(configs []model.BreakConfig, options Options) (*Scheduler, error) {
	if err := model.ValidateBreaks(configs); err != nil {
		return nil, fmt.Errorf("invalid break configs: %w", err)
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	now := options.Now()
	scheduler := &Scheduler{
		options:   options,
		logger:    options.Logger.With().Str("component", "scheduler").Logger(),
		configs:   slices.Clone(configs),
		lastBreak: make(map[uuid.UUID]time.Time, len(configs)),
		state:     Working(),
		lastTick:  now,
	}
	for _, config := range configs {
		scheduler.lastBreak[config.ID] = now
	}
	scheduler.recomputeNextBreakLocked()
	return scheduler, nil
}

// Advance moves the state machine to now. idle is the time since the last
// user input.
func (scheduler *Scheduler) Advance(now time.Time, idle time.Duration) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if scheduler.paused {
		if scheduler.pausedUntil.IsZero() || now.Before(scheduler.pausedUntil) {
			scheduler.freezeUntilLocked(now)
			scheduler.recomputeNextBreakLocked()
			scheduler.emitLocked(EventProgress, now, "")
			return
		}
		scheduler.freezeUntilLocked(scheduler.pausedUntil)
		scheduler.paused = false
		scheduler.pausedUntil = time.Time{}
		scheduler.recomputeNextBreakLocked()
		scheduler.logger.Info().Msg("timed pause expired")
		scheduler.emitLocked(EventPauseChange, now, "resumed")
	}
	scheduler.lastTick = now

	switch scheduler.state.Kind {
	case KindWorking:
		scheduler.advanceWorkLocked(now, idle)
	case KindInBreak:
		scheduler.advanceBreakLocked(now)
	case KindIdle:
	}

	scheduler.emitLocked(EventProgress, now, "")
}

// TogglePause flips the paused flag. Resuming recomputes the next break
// immediately.
func (scheduler *Scheduler) TogglePause() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	now := scheduler.options.Now()
	if scheduler.paused {
		scheduler.freezeUntilLocked(now)
		scheduler.paused = false
		scheduler.pausedUntil = time.Time{}
		scheduler.recomputeNextBreakLocked()
		scheduler.logger.Info().Msg("resumed")
		scheduler.emitLocked(EventPauseChange, now, "resumed")
		return
	}

	scheduler.paused = true
	scheduler.pausedUntil = time.Time{}
	scheduler.lastTick = now
	scheduler.logger.Info().Msg("paused")
	scheduler.emitLocked(EventPauseChange, now, "paused")
}

// PauseFor pauses the scheduler and resumes it on the first tick after
// duration has passed.
func (scheduler *Scheduler) PauseFor(duration time.Duration) {
	if duration <= 0 {
		return
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	now := scheduler.options.Now()
	if !scheduler.paused {
		scheduler.paused = true
		scheduler.lastTick = now
	}
	scheduler.pausedUntil = now.Add(duration)
	scheduler.logger.Info().Dur("duration", duration).Msg("paused for a while")
	scheduler.emitLocked(EventPauseChange, now, "paused until "+scheduler.pausedUntil.Format(time.Kitchen))
}

// SkipBreak ends the current break and returns to the working state.
func (scheduler *Scheduler) SkipBreak() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if scheduler.state.Kind != KindInBreak {
		scheduler.logger.Debug().Msg("skip ignored: no break in progress")
		return
	}
	scheduler.endBreakLocked(scheduler.options.Now(), false, "skipped")
}

// PostponeBreak ends the current break so that it triggers again after delay.
func (scheduler *Scheduler) PostponeBreak(delay time.Duration) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	active, ok := scheduler.state.ActiveBreak()
	if !ok {
		scheduler.logger.Debug().Msg("postpone ignored: no break in progress")
		return
	}
	if delay < 0 {
		delay = 0
	}

	now := scheduler.options.Now()
	scheduler.settlePauseLocked(now)
	interval := active.Config.Interval
	if live, found := model.FindBreak(scheduler.configs, active.Config.ID); found {
		interval = live.Interval
	}
	if _, tracked := scheduler.lastBreak[active.Config.ID]; tracked {
		scheduler.lastBreak[active.Config.ID] = now.Add(delay).Add(-interval)
	}

	scheduler.state = Working()
	scheduler.progress = 0
	scheduler.remaining = 0
	scheduler.recomputeNextBreakLocked()
	scheduler.logger.Info().
		Str("break", active.Config.Name).
		Dur("delay", delay).
		Msg("break postponed")
	scheduler.emitLocked(EventStateChange, now, "postponed")
}

// ForceBreak starts the break with the given id immediately. It reports
// whether a break was started.
func (scheduler *Scheduler) ForceBreak(id uuid.UUID) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if scheduler.paused || scheduler.state.Kind != KindWorking {
		return false
	}
	config, ok := model.FindBreak(scheduler.configs, id)
	if !ok {
		return false
	}
	scheduler.startBreakLocked(config, scheduler.options.Now())
	return true
}

// SetBreaks replaces the break set. Timers of configs that keep their ID
// are preserved; new configs start counting now.
func (scheduler *Scheduler) SetBreaks(configs []model.BreakConfig) error {
	if err := model.ValidateBreaks(configs); err != nil {
		return fmt.Errorf("invalid break configs: %w", err)
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	now := scheduler.options.Now()
	scheduler.settlePauseLocked(now)
	lastBreak := make(map[uuid.UUID]time.Time, len(configs))
	for _, config := range configs {
		if last, ok := scheduler.lastBreak[config.ID]; ok {
			lastBreak[config.ID] = last
			continue
		}
		lastBreak[config.ID] = now
	}
	scheduler.configs = slices.Clone(configs)
	scheduler.lastBreak = lastBreak
	scheduler.recomputeNextBreakLocked()
	scheduler.logger.Info().Int("breaks", len(configs)).Msg("break configs updated")
	scheduler.emitLocked(EventConfigChange, now, "")
	return nil
}

// Snapshot returns the observable state as of now.
func (scheduler *Scheduler) Snapshot() Snapshot {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.snapshotLocked(scheduler.options.Now())
}

// State returns the current state.
func (scheduler *Scheduler) State() State {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.state.clone()
}

// Paused reports whether the scheduler is paused.
func (scheduler *Scheduler) Paused() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.paused
}

// NextBreak returns when the next break is due. ok is false when every
// break is disabled.
func (scheduler *Scheduler) NextBreak() (time.Time, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.nextBreak, scheduler.hasNext
}

// LastBreak returns when the timer of the given break was last reset.
func (scheduler *Scheduler) LastBreak(id uuid.UUID) (time.Time, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	last, ok := scheduler.lastBreak[id]
	return last, ok
}

// Breaks returns a copy of the live break set.
func (scheduler *Scheduler) Breaks() []model.BreakConfig {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return slices.Clone(scheduler.configs)
}

// DueTimes returns when each enabled break is due, keyed by ID.
func (scheduler *Scheduler) DueTimes() map[uuid.UUID]time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	due := make(map[uuid.UUID]time.Time, len(scheduler.configs))
	for _, config := range scheduler.configs {
		if config.Enabled {
			due[config.ID] = scheduler.lastBreak[config.ID].Add(config.Interval)
		}
	}
	return due
}

func (scheduler *Scheduler) advanceWorkLocked(now time.Time, idle time.Duration) {
	var reset []string
	for _, config := range scheduler.configs {
		if !config.Enabled || !config.ResetOnIdle {
			continue
		}
		if idle >= config.IdleThreshold {
			scheduler.lastBreak[config.ID] = now
			reset = append(reset, config.Name)
		}
	}
	if len(reset) > 0 && !scheduler.idling {
		scheduler.logger.Debug().
			Strs("breaks", reset).
			Dur("idle", idle).
			Msg("idle reset")
		scheduler.emitLocked(EventIdleReset, now, "idle reset: "+strings.Join(reset, ", "))
	}
	scheduler.idling = len(reset) > 0

	for _, config := range model.ByPriority(scheduler.configs) {
		if !config.Enabled {
			continue
		}
		if now.Sub(scheduler.lastBreak[config.ID]) >= config.Interval {
			scheduler.startBreakLocked(config, now)
			break
		}
	}

	scheduler.recomputeNextBreakLocked()
}

func (scheduler *Scheduler) advanceBreakLocked(now time.Time) {
	active, ok := scheduler.state.ActiveBreak()
	if !ok {
		scheduler.state = Working()
		return
	}
	if !now.Before(active.EndTime) {
		scheduler.endBreakLocked(now, true, "completed")
		return
	}
	scheduler.remaining = active.EndTime.Sub(now)
	scheduler.progress = breakProgress(scheduler.remaining, active.Config.Duration)
}

func (scheduler *Scheduler) startBreakLocked(config model.BreakConfig, now time.Time) {
	scheduler.state = InBreak(config, now.Add(config.Duration))
	scheduler.progress = 0
	scheduler.remaining = config.Duration
	scheduler.idling = false
	scheduler.logger.Info().
		Str("break", config.Name).
		Dur("duration", config.Duration).
		Msg("break started")
	scheduler.emitLocked(EventStateChange, now, "started")
}

// endBreakLocked resolves the finished break by ID only; a config removed
// while its break was running leaves every timer untouched.
func (scheduler *Scheduler) endBreakLocked(now time.Time, completed bool, reason string) {
	active, ok := scheduler.state.ActiveBreak()
	if !ok {
		return
	}
	scheduler.settlePauseLocked(now)
	if _, tracked := scheduler.lastBreak[active.Config.ID]; tracked {
		scheduler.lastBreak[active.Config.ID] = now
	}

	scheduler.state = Working()
	scheduler.remaining = 0
	if completed {
		scheduler.progress = 1
	} else {
		scheduler.progress = 0
	}
	scheduler.recomputeNextBreakLocked()
	scheduler.logger.Info().
		Str("break", active.Config.Name).
		Str("reason", reason).
		Msg("break ended")
	scheduler.emitLocked(EventStateChange, now, reason)
}

// freezeUntilLocked shifts every timer by the paused time since the last
// tick so that paused wall-clock time does not count as work.
func (scheduler *Scheduler) freezeUntilLocked(until time.Time) {
	shift := until.Sub(scheduler.lastTick)
	if shift > 0 {
		for id, last := range scheduler.lastBreak {
			scheduler.lastBreak[id] = last.Add(shift)
		}
		if scheduler.state.Break != nil {
			scheduler.state.Break.EndTime = scheduler.state.Break.EndTime.Add(shift)
		}
	}
	if until.After(scheduler.lastTick) {
		scheduler.lastTick = until
	}
}

// settlePauseLocked applies the pause shift up to now before a command
// stamps timers, so the next paused tick only shifts the time after it.
func (scheduler *Scheduler) settlePauseLocked(now time.Time) {
	if scheduler.paused {
		scheduler.freezeUntilLocked(now)
	}
}

func (scheduler *Scheduler) recomputeNextBreakLocked() {
	scheduler.hasNext = false
	scheduler.nextBreak = time.Time{}
	for _, config := range scheduler.configs {
		if !config.Enabled {
			continue
		}
		due := scheduler.lastBreak[config.ID].Add(config.Interval)
		if !scheduler.hasNext || due.Before(scheduler.nextBreak) {
			scheduler.nextBreak = due
			scheduler.hasNext = true
		}
	}
}

func (scheduler *Scheduler) snapshotLocked(at time.Time) Snapshot {
	snapshot := Snapshot{
		State:         scheduler.state.clone(),
		Paused:        scheduler.paused,
		PausedUntil:   scheduler.pausedUntil,
		NextBreak:     scheduler.nextBreak,
		HasNextBreak:  scheduler.hasNext,
		Progress:      scheduler.progress,
		Remaining:     scheduler.remaining,
		RemainingText: FormatRemaining(scheduler.remaining),
		At:            at,
	}
	if scheduler.hasNext {
		snapshot.NextBreakIn = scheduler.nextBreak.Sub(at)
	}
	return snapshot
}

func (scheduler *Scheduler) emitLocked(eventType EventType, at time.Time, message string) {
	if len(scheduler.events) == 0 {
		return
	}
	event := Event{
		Type:     eventType,
		Snapshot: scheduler.snapshotLocked(at),
		Message:  message,
		At:       at,
	}
	for _, ch := range scheduler.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func breakProgress(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	progress := 1 - float64(remaining)/float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// FormatRemaining renders a duration as mm:ss.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
