package model

import (
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
)

// Overlay opacity bounds accepted by the preferences window.
const (
	MinOverlayOpacity = 0.7
	MaxOverlayOpacity = 0.95
)

// DefaultPostponeDelay is how long a postponed break waits before it triggers again.
const DefaultPostponeDelay = 5 * time.Minute

// Settings defines editable user preferences.
type Settings struct {
	Breaks        []BreakConfig
	PostponeDelay time.Duration

	OverlayOpacity float64
	Fullscreen     bool
	LaunchAtLogin  bool
}

// DefaultSettings returns default settings for TimeOut.
func DefaultSettings() Settings {
	return Settings{
		Breaks:         DefaultBreaks(),
		PostponeDelay:  DefaultPostponeDelay,
		OverlayOpacity: 0.85,
		Fullscreen:     true,
		LaunchAtLogin:  false,
	}
}

// Validate reports every invalid field.
func (settings Settings) Validate() error {
	return criterio.ValidateStruct(
		ValidateBreaks(settings.Breaks),
		criterio.Run("postpone_delay", settings.PostponeDelay, requirePositive),
		criterio.Run("overlay_opacity", settings.OverlayOpacity, opacityInRange),
	)
}

func opacityInRange(opacity float64) error {
	if opacity < MinOverlayOpacity || opacity > MaxOverlayOpacity {
		return fmt.Errorf("must be between %.2f and %.2f, got %.2f", MinOverlayOpacity, MaxOverlayOpacity, opacity)
	}
	return nil
}
