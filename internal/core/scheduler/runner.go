package scheduler

import (
	"errors"
	"time"
)

// SetIdleSource injects an idle source.
func (scheduler *Scheduler) SetIdleSource(source IdleSource) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.idleSource = source
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.mu.Lock()
	scheduler.events = append(scheduler.events, ch)
	scheduler.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	if scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = true
	scheduler.stopCh = make(chan struct{})
	stopCh := scheduler.stopCh
	now := scheduler.options.Now()
	scheduler.emitLocked(EventStateChange, now, "started")
	scheduler.mu.Unlock()

	go scheduler.run(stopCh)
}

// Stop terminates the ticking loop and closes observers.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	close(scheduler.stopCh)
	scheduler.running = false
	events := scheduler.events
	scheduler.events = nil
	scheduler.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (scheduler *Scheduler) run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(scheduler.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			scheduler.tick(tickTime)
		}
	}
}

func (scheduler *Scheduler) tick(tickTime time.Time) {
	idle := scheduler.pollIdle(tickTime)
	scheduler.Advance(tickTime, idle)
}

// pollIdle queries the idle source outside the lock. Failures count as no
// idle time; an unsupported source is dropped.
func (scheduler *Scheduler) pollIdle(now time.Time) time.Duration {
	scheduler.mu.Lock()
	source := scheduler.idleSource
	wanted := source != nil && !scheduler.paused &&
		scheduler.state.Kind == KindWorking && scheduler.watchesIdleLocked()
	scheduler.mu.Unlock()
	if !wanted {
		return 0
	}

	idle, err := source.IdleDuration()
	if err == nil {
		if idle < 0 {
			return 0
		}
		return idle
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if errors.Is(err, ErrIdleUnsupported) {
		if scheduler.idleSource == source {
			scheduler.idleSource = nil
		}
		scheduler.logger.Warn().Err(err).Msg("idle detection disabled")
	} else {
		scheduler.logger.Warn().Err(err).Msg("idle query failed, assuming active user")
	}
	scheduler.emitLocked(EventIdleError, now, err.Error())
	return 0
}

func (scheduler *Scheduler) watchesIdleLocked() bool {
	for _, config := range scheduler.configs {
		if config.Enabled && config.ResetOnIdle {
			return true
		}
	}
	return false
}
