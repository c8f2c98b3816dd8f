package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"timeout/internal/core/scheduler"
)

type xprintidleSource struct {
	path    string
	timeout time.Duration
}

func newIdleSource() scheduler.IdleSource {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") && os.Getenv("DISPLAY") == "" {
		return unsupportedIdleSource{reason: "wayland session without X display"}
	}
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleSource{reason: "xprintidle not found"}
	}
	return &xprintidleSource{path: path, timeout: idleQueryTimeout}
}

func (source *xprintidleSource) IdleDuration() (time.Duration, error) {
	output, err := runIdleCommand(source.timeout, source.path)
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}
