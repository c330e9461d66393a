package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/snooper/internal/capture"
	"firestige.xyz/snooper/internal/core"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, capture.TypePCAP, cfg.Capture.Backend)
	assert.Equal(t, 25, cfg.Capture.TimeoutMs)
	assert.Equal(t, 60, cfg.Defaults.TimeInterval)
	assert.Equal(t, "output.txt", cfg.Defaults.FilePath)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	content := `
capture:
  device: eth0
  snap_len: 1600
  backend: afpacket
metrics:
  enabled: true
  addr: ":9999"
defaults:
  time_interval: 30
  format: verbose
`
	path := filepath.Join(t.TempDir(), "snooper.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Capture.Device)
	assert.Equal(t, 1600, cfg.Capture.SnapLen)
	assert.Equal(t, capture.TypeAFPacket, cfg.Capture.Backend)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
	assert.Equal(t, 30, cfg.Defaults.TimeInterval)
	assert.Equal(t, "verbose", cfg.Defaults.Format)

	// Untouched sections keep their defaults.
	assert.Equal(t, 25, cfg.Capture.TimeoutMs)
	assert.Equal(t, "output.txt", cfg.Defaults.FilePath)
}

func TestLoadRejectsBadFormat(t *testing.T) {
	content := `
defaults:
  format: Table
`
	path := filepath.Join(t.TempDir(), "snooper.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrInvalidFormat)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	content := `
defaults:
  time_interval: 0
`
	path := filepath.Join(t.TempDir(), "snooper.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrInvalidInterval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
