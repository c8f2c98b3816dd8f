package platform

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"timeout/internal/core/scheduler"
)

// NewIdleSource returns the idle source for this OS. Sources that cannot
// work here report scheduler.ErrIdleUnsupported on first use.
func NewIdleSource() scheduler.IdleSource {
	return newIdleSource()
}

// idleQueryTimeout bounds one idle query; it stays below the scheduler tick.
const idleQueryTimeout = 500 * time.Millisecond

// runIdleCommand runs an idle helper and returns its stdout. A helper that
// outlives timeout is killed and its pipes are closed shortly after.
func runIdleCommand(timeout time.Duration, path string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = timeout / 5
	output, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("timed out after %s: %w", timeout, ctx.Err())
	}
	return output, err
}

type unsupportedIdleSource struct {
	reason string
}

func (source unsupportedIdleSource) IdleDuration() (time.Duration, error) {
	return 0, fmt.Errorf("%w: %s", scheduler.ErrIdleUnsupported, source.reason)
}

// parseIdleMillis parses xprintidle output.
func parseIdleMillis(output string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// parseIoregIdle extracts HIDIdleTime (nanoseconds) from ioreg output.
func parseIoregIdle(output string) (time.Duration, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		idleNanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		if idleNanos < 0 {
			idleNanos = 0
		}
		return time.Duration(idleNanos), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan ioreg output: %w", err)
	}
	return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
}
