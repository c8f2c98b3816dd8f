package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"timeout/internal/core/model"
	"timeout/internal/core/scheduler"
)

// Controller is the scheduler surface the terminal UI drives.
type Controller interface {
	TogglePause()
	SkipBreak()
	PostponeBreak(delay time.Duration)
	ForceBreak(id uuid.UUID) bool
	Snapshot() scheduler.Snapshot
	Breaks() []model.BreakConfig
	DueTimes() map[uuid.UUID]time.Time
}

// Options configures the terminal UI.
type Options struct {
	PostponeDelay time.Duration
	Logger        zerolog.Logger
}

type eventMsg scheduler.Event

type eventsClosedMsg struct{}

// Model is the bubbletea model for the terminal presentation.
type Model struct {
	controller    Controller
	events        <-chan scheduler.Event
	postponeDelay time.Duration
	logger        zerolog.Logger

	keys     keyMap
	help     help.Model
	progress progress.Model

	snapshot scheduler.Snapshot
	breaks   []model.BreakConfig
	due      map[uuid.UUID]time.Time
	notice   string
	width    int
	height   int
}

// New creates the model. events is a scheduler subscription; the program
// quits when it is closed.
func New(controller Controller, events <-chan scheduler.Event, options Options) Model {
	if options.PostponeDelay <= 0 {
		options.PostponeDelay = model.DefaultPostponeDelay
	}
	m := Model{
		controller:    controller,
		events:        events,
		postponeDelay: options.PostponeDelay,
		logger:        options.Logger.With().Str("component", "tui").Logger(),
		keys:          newKeyMap(),
		help:          help.New(),
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.refresh(controller.Snapshot())
	m.breaks = controller.Breaks()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case eventMsg:
		switch msg.Type {
		case scheduler.EventConfigChange:
			m.breaks = m.controller.Breaks()
		case scheduler.EventIdleError:
			m.notice = "idle detection: " + msg.Message
		case scheduler.EventStateChange:
			m.notice = ""
		}
		m.refresh(msg.Snapshot)
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.controller.TogglePause()
	case key.Matches(msg, m.keys.Skip):
		m.controller.SkipBreak()
	case key.Matches(msg, m.keys.Postpone):
		m.controller.PostponeBreak(m.postponeDelay)
	case key.Matches(msg, m.keys.TakeBreak):
		id, ok := soonestBreak(m.controller.DueTimes())
		if !ok || !m.controller.ForceBreak(id) {
			m.notice = "no break available"
		}
	default:
		return m, nil
	}

	m.logger.Debug().Str("key", msg.String()).Msg("command")
	m.refresh(m.controller.Snapshot())
	return m, nil
}

func (m *Model) refresh(snapshot scheduler.Snapshot) {
	m.snapshot = snapshot
	m.due = m.controller.DueTimes()
	_, inBreak := snapshot.State.ActiveBreak()
	m.keys.syncBreakKeys(inBreak, snapshot.Paused)
}

func waitForEvent(events <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

// soonestBreak returns the enabled break with the earliest due time. Ties
// go to the smaller ID so the choice is stable.
func soonestBreak(due map[uuid.UUID]time.Time) (uuid.UUID, bool) {
	var (
		best     uuid.UUID
		bestTime time.Time
		found    bool
	)
	for id, at := range due {
		if !found || at.Before(bestTime) || (at.Equal(bestTime) && id.String() < best.String()) {
			best, bestTime, found = id, at, true
		}
	}
	return best, found
}
