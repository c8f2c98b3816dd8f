package scheduler

import (
	"errors"
	"time"
)

//go:generate mockgen -source=idle.go -destination=mock_idle_test.go -package=scheduler

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleSource reports the duration of user inactivity.
type IdleSource interface {
	IdleDuration() (time.Duration, error)
}
