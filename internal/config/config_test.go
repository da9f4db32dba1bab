package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, 45*time.Minute, cfg.SessionGap())
	assert.Equal(t, 120*time.Second, cfg.EngagementGap())
	assert.True(t, cfg.CountFullGap)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Empty(t, cfg.DeviceOwner)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"session_gap_minutes = 30\ndevice_owner = \"Karim\"\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.SessionGap())
	assert.Equal(t, "Karim", cfg.DeviceOwner)
	assert.Equal(t, 120, cfg.EngagementGapSeconds, "unset keys keep defaults")
}

func TestLoadFileBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("session_gap_minutes = [oops"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", "out"), expandHome("~/out", "/home/u"))
	assert.Equal(t, "/abs/out", expandHome("/abs/out", "/home/u"))
	assert.Equal(t, "~", expandHome("~", "/home/u"))
}
