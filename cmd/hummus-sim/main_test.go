package main

import (
	"path/filepath"
	"testing"

	"github.com/SynapticNetworks/hummus/config"
	"github.com/stretchr/testify/require"
)

// TestRunCompletesAndWritesSnapshot exercises the demo wiring end to end:
// a default event-driven config drives the four-input/two-hidden network
// to completion and, when a save path is set, writes a readable snapshot.
func TestRunCompletesAndWritesSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.TMax = 1
	cfg.SavePath = filepath.Join(t.TempDir(), "snapshot.json")

	require.NoError(t, run(cfg))
	require.FileExists(t, cfg.SavePath)
}

// TestRunClockDrivenCompletes exercises the alternate dt>0 run path.
func TestRunClockDrivenCompletes(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = "clock"
	cfg.Dt = 0.01
	cfg.TMax = 0.5

	require.NoError(t, run(cfg))
}
