package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://hrms-ask-1.onrender.com", cfg.BaseURL)
	assert.Equal(t, "127.0.0.1:12345", cfg.ListenAddr)
	assert.InDelta(t, 10, cfg.IdleThresholdSeconds, 0.001)
	assert.InDelta(t, 5, cfg.JitterPixels, 0.001)
	assert.Equal(t, 10, cfg.OfficeStartHour)
	assert.Equal(t, 18, cfg.OfficeEndHour)
	assert.Equal(t, 15, cfg.PollIntervalSeconds)
	assert.Equal(t, 500, cfg.TickIntervalMillis)
	assert.InDelta(t, 7, cfg.TargetHours, 0.001)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://localhost:3000
idle_threshold_seconds: 30
office_start_hour: 9
office_end_hour: 17
target_hours: 8
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.InDelta(t, 30, cfg.IdleThresholdSeconds, 0.001)
	assert.Equal(t, 9, cfg.OfficeStartHour)
	assert.Equal(t, 17, cfg.OfficeEndHour)
	assert.InDelta(t, 8, cfg.TargetHours, 0.001)

	// Unset fields still get defaults.
	assert.Equal(t, "127.0.0.1:12345", cfg.ListenAddr)
	assert.Equal(t, 15, cfg.PollIntervalSeconds)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestIntervalHelpers(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "15s", cfg.PollInterval().String())
	assert.Equal(t, "500ms", cfg.TickInterval().String())
	assert.Equal(t, "10s", cfg.SaveInterval().String())
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join(cfg.StateDir, "history.db"), cfg.ArchivePath)
	assert.Equal(t, filepath.Join(cfg.StateDir, "logs", "app.log"), cfg.LogFile)
}
