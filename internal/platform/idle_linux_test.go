package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xprintidle")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestXprintidleSource_ParsesOutput(t *testing.T) {
	source := &xprintidleSource{path: writeScript(t, "echo 4200"), timeout: 5 * time.Second}

	idle, err := source.IdleDuration()

	require.NoError(t, err)
	assert.Equal(t, 4200*time.Millisecond, idle)
}

func TestXprintidleSource_HungHelperIsBounded(t *testing.T) {
	source := &xprintidleSource{path: writeScript(t, "sleep 3\necho 10"), timeout: 200 * time.Millisecond}

	start := time.Now()
	_, err := source.IdleDuration()
	elapsed := time.Since(start)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)
}

func TestIdleQueryTimeoutBelowTick(t *testing.T) {
	assert.Less(t, idleQueryTimeout, time.Second)
}
