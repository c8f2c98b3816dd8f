package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
)

// DefaultIdleThreshold is the idle time that counts as a natural break for new configs.
const DefaultIdleThreshold = 5 * time.Minute

var presetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("timeout/break-presets"))

// Preset IDs stay the same across runs so a settings file written from the
// defaults keeps matching them.
var (
	MicroBreakID  = uuid.NewSHA1(presetNamespace, []byte("micro"))
	NormalBreakID = uuid.NewSHA1(presetNamespace, []byte("normal"))
)

// BreakConfig defines a recurring break schedule.
type BreakConfig struct {
	ID            uuid.UUID
	Name          string
	Interval      time.Duration
	Duration      time.Duration
	Enabled       bool
	ResetOnIdle   bool
	IdleThreshold time.Duration
	// Strict hides skip and postpone on the overlay.
	Strict bool
}

// NewBreakConfig creates an enabled config with a fresh ID.
func NewBreakConfig(name string, interval, duration time.Duration) (BreakConfig, error) {
	config := BreakConfig{
		ID:            uuid.New(),
		Name:          name,
		Interval:      interval,
		Duration:      duration,
		Enabled:       true,
		ResetOnIdle:   true,
		IdleThreshold: DefaultIdleThreshold,
	}
	if err := config.Validate(); err != nil {
		return BreakConfig{}, err
	}
	return config, nil
}

// MicroBreak returns the short, frequent preset.
func MicroBreak() BreakConfig {
	return BreakConfig{
		ID:            MicroBreakID,
		Name:          "Micro",
		Interval:      15 * time.Minute,
		Duration:      15 * time.Second,
		Enabled:       true,
		ResetOnIdle:   true,
		IdleThreshold: 2 * time.Minute,
	}
}

// NormalBreak returns the long, infrequent preset.
func NormalBreak() BreakConfig {
	return BreakConfig{
		ID:            NormalBreakID,
		Name:          "Normal",
		Interval:      time.Hour,
		Duration:      10 * time.Minute,
		Enabled:       true,
		ResetOnIdle:   true,
		IdleThreshold: 10 * time.Minute,
	}
}

// DefaultBreaks returns the preset break set.
func DefaultBreaks() []BreakConfig {
	return []BreakConfig{MicroBreak(), NormalBreak()}
}

// Validate checks the config invariants.
func (config BreakConfig) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("id", config.ID, requireID),
		criterio.Run("name", config.Name, requireName),
		criterio.Run("interval", config.Interval, requirePositive),
		criterio.Run("duration", config.Duration, requirePositive),
		criterio.Run("idle_threshold", config.IdleThreshold, requireNonNegative),
	)
}

// ValidateBreaks validates a break set and rejects duplicate IDs.
func ValidateBreaks(configs []BreakConfig) error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[uuid.UUID]bool, len(configs))
	for i, config := range configs {
		prefix := fmt.Sprintf("breaks[%d]", i)
		var fieldErrs criterio.FieldErrors
		if err := config.Validate(); errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				errs = errs.Append(prefix+"."+fieldErr.Field, fieldErr.Err)
			}
		} else if err != nil {
			errs = errs.Append(prefix, err)
		}
		if config.ID != uuid.Nil && seen[config.ID] {
			errs = errs.Append(prefix+".id", fmt.Errorf("duplicate id %s", config.ID))
		}
		seen[config.ID] = true
	}
	return errs.ToError()
}

// ByPriority returns the configs in trigger order: longer intervals first,
// ties keep their configured order.
func ByPriority(configs []BreakConfig) []BreakConfig {
	ordered := slices.Clone(configs)
	slices.SortStableFunc(ordered, func(a, b BreakConfig) int {
		switch {
		case a.Interval > b.Interval:
			return -1
		case a.Interval < b.Interval:
			return 1
		default:
			return 0
		}
	})
	return ordered
}

// FindBreak returns the config with the given ID.
func FindBreak(configs []BreakConfig, id uuid.UUID) (BreakConfig, bool) {
	for _, config := range configs {
		if config.ID == id {
			return config, true
		}
	}
	return BreakConfig{}, false
}

func requireID(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	return nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func requirePositive(value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("must be greater than zero, got %s", value)
	}
	return nil
}

func requireNonNegative(value time.Duration) error {
	if value < 0 {
		return fmt.Errorf("must not be negative, got %s", value)
	}
	return nil
}
