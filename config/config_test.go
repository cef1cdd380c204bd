package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, "backtest:\n  limit: 25\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Backtest.Limit)
	assert.Equal(t, "15min", cfg.Backtest.Pattern)
	assert.Equal(t, 5, cfg.Backtest.FidelityMinutes)
	assert.InDelta(t, 0.52, cfg.Trader.MinProb, 1e-9)
	assert.InDelta(t, 0.60, cfg.Trader.MaxProb, 1e-9)
	assert.Equal(t, 60, cfg.Trader.RefreshSeconds)
	assert.Equal(t, 3, cfg.Trader.PollSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RejectsUnorderedThresholds(t *testing.T) {
	path := writeConfig(t, "backtest:\n  thresholds: [0.5, 0.7, 0.6]\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly ascending")
}

func TestLoad_RejectsInvertedProbBand(t *testing.T) {
	path := writeConfig(t, "trader:\n  min_prob: 0.7\n  max_prob: 0.6\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownPattern(t *testing.T) {
	path := writeConfig(t, "backtest:\n  pattern: hourly\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_APIKeyOnlyFromEnv(t *testing.T) {
	// El API key en YAML se ignora: solo entra por env
	path := writeConfig(t, "api:\n  api_key: from-yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.API.APIKey)

	t.Setenv("POLYMARKET_API_KEY", "from-env")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.APIKey)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
