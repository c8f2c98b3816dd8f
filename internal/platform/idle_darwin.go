package platform

import (
	"fmt"
	"os/exec"
	"time"

	"timeout/internal/core/scheduler"
)

type ioregSource struct {
	path    string
	timeout time.Duration
}

func newIdleSource() scheduler.IdleSource {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		return unsupportedIdleSource{reason: "ioreg not found"}
	}
	return &ioregSource{path: path, timeout: idleQueryTimeout}
}

func (source *ioregSource) IdleDuration() (time.Duration, error) {
	output, err := runIdleCommand(source.timeout, source.path, "-c", "IOHIDSystem")
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseIoregIdle(string(output))
}
