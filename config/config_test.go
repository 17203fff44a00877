package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsEventDrivenWithPositiveTMax(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "event", cfg.Mode)
	require.Equal(t, 0.0, cfg.Dt)
}

func TestLoadParsesAndValidatesAFullConfig(t *testing.T) {
	path := writeTOML(t, `
dataset_path = "testdata/digits"
mode = "clock"
dt = 0.001
t_max = 5.0
seed = 42
spike_log = "out.spikes"
save_path = "out.json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "testdata/digits", cfg.DatasetPath)
	require.Equal(t, "clock", cfg.Mode)
	require.Equal(t, 0.001, cfg.Dt)
	require.Equal(t, 5.0, cfg.TMax)
	require.Equal(t, int64(42), cfg.Seed)
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeTOML(t, `t_max = 2.0`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "event", cfg.Mode) // Default()'s mode survives decoding an unrelated field
	require.Equal(t, 2.0, cfg.TMax)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeTOML(t, `mode = "synchronous"`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsClockModeWithoutPositiveDt(t *testing.T) {
	path := writeTOML(t, `
mode = "clock"
t_max = 1.0
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveTMax(t *testing.T) {
	path := writeTOML(t, `t_max = 0`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}

func TestValidateAcceptsEventModeRegardlessOfDt(t *testing.T) {
	cfg := Config{Mode: "event", Dt: 0, TMax: 1}
	require.NoError(t, cfg.Validate())
}
