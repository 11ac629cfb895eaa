package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("DEVSTREAKS_GITHUB_TOKEN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultGitHub.Endpoint, cfg.GitHub.Endpoint)
	assert.Equal(t, DefaultLeetCode.Endpoint, cfg.LeetCode.Endpoint)
	assert.Equal(t, DefaultHistoryYears, cfg.HistoryYears)
	assert.Equal(t, DefaultHeatmapDays, cfg.HeatmapDays)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
history_years: 3
heatmap_days: 30
cache:
  ttl: 2m
  backend: sqlite
github:
  token: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("DEVSTREAKS_GITHUB_TOKEN", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HistoryYears)
	assert.Equal(t, 30, cfg.HeatmapDays)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "from-file", cfg.GitHub.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DEVSTREAKS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "plain-token")
	t.Setenv("DEVSTREAKS_HEATMAP_DAYS", "14")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plain-token", cfg.GitHub.Token)
	assert.Equal(t, 14, cfg.HeatmapDays)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heatmap_days: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cache:\n  backend: redis\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("output:\n  width: -1\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, "x", "y"), expandPath("~/x/y"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
