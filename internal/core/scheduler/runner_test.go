package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeout/internal/core/model"
)

func TestPollIdle_ReturnsSourceValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockIdleSource(ctrl)
	source.EXPECT().IdleDuration().Return(42*time.Second, nil)

	scheduler, _ := newTestScheduler(t)
	scheduler.SetIdleSource(source)

	assert.Equal(t, 42*time.Second, scheduler.pollIdle(at(1)))
}

func TestPollIdle_NegativeIsZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockIdleSource(ctrl)
	source.EXPECT().IdleDuration().Return(-time.Second, nil)

	scheduler, _ := newTestScheduler(t)
	scheduler.SetIdleSource(source)

	assert.Zero(t, scheduler.pollIdle(at(1)))
}

func TestPollIdle_ErrorCountsAsActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockIdleSource(ctrl)
	source.EXPECT().IdleDuration().Return(time.Duration(0), errors.New("xprintidle: exit status 1")).Times(2)

	scheduler, _ := newTestScheduler(t)
	scheduler.SetIdleSource(source)
	events := scheduler.Subscribe(4)

	assert.Zero(t, scheduler.pollIdle(at(1)))
	assert.Zero(t, scheduler.pollIdle(at(2)), "transient errors keep the source")

	require.Len(t, events, 2)
	event := <-events
	assert.Equal(t, EventIdleError, event.Type)
	assert.Contains(t, event.Message, "xprintidle")
}

func TestPollIdle_UnsupportedDropsSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockIdleSource(ctrl)
	source.EXPECT().IdleDuration().Return(time.Duration(0), ErrIdleUnsupported).Times(1)

	scheduler, _ := newTestScheduler(t)
	scheduler.SetIdleSource(source)

	assert.Zero(t, scheduler.pollIdle(at(1)))
	assert.Zero(t, scheduler.pollIdle(at(2)))
}

func TestPollIdle_SkippedWhenNotNeeded(t *testing.T) {
	t.Run("paused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := NewMockIdleSource(ctrl)

		scheduler, _ := newTestScheduler(t)
		scheduler.SetIdleSource(source)
		scheduler.TogglePause()

		assert.Zero(t, scheduler.pollIdle(at(1)))
	})

	t.Run("in break", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := NewMockIdleSource(ctrl)

		scheduler, _ := newTestScheduler(t)
		scheduler.SetIdleSource(source)
		require.True(t, scheduler.ForceBreak(model.MicroBreakID))

		assert.Zero(t, scheduler.pollIdle(at(1)))
	})

	t.Run("no break resets on idle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := NewMockIdleSource(ctrl)

		micro := model.MicroBreak()
		micro.ResetOnIdle = false
		scheduler, _ := newTestScheduler(t, micro)
		scheduler.SetIdleSource(source)

		assert.Zero(t, scheduler.pollIdle(at(1)))
	})
}

func TestTick_AppliesIdleReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockIdleSource(ctrl)
	source.EXPECT().IdleDuration().Return(130*time.Second, nil)

	scheduler, _ := newTestScheduler(t)
	scheduler.SetIdleSource(source)

	scheduler.tick(at(500))

	assert.Equal(t, at(500), lastBreak(t, scheduler, model.MicroBreakID))
	assert.Equal(t, at(0), lastBreak(t, scheduler, model.NormalBreakID))
}

func TestStartStop(t *testing.T) {
	scheduler, err := New(model.DefaultBreaks(), Options{TickInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	events := scheduler.Subscribe(16)

	scheduler.Start()
	scheduler.Start()

	first := <-events
	assert.Equal(t, EventStateChange, first.Type)
	assert.Equal(t, "started", first.Message)

	deadline := time.After(2 * time.Second)
	for received := false; !received; {
		select {
		case event := <-events:
			received = event.Type == EventProgress
		case <-deadline:
			t.Fatal("no progress event before deadline")
		}
	}

	scheduler.Stop()
	scheduler.Stop()

	closed := make(chan struct{})
	go func() {
		for range events {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Stop")
	}
}
