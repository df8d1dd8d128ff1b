package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "data", cfg.Analysis.DataDir)
	assert.Equal(t, "analysis", cfg.Analysis.OutputDir)
	assert.Equal(t, 60, cfg.Analysis.RunInterval)
	assert.Equal(t, 100, cfg.BatchProcessing.QueueSize)
	assert.Equal(t, 2, cfg.BatchProcessing.ProcessorCount)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
	assert.Empty(t, cfg.Telegram.BotToken)
	assert.Zero(t, cfg.Construction.PlotSizeSqYd)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/snapshots")
	t.Setenv("ANALYSIS_INTERVAL", "15")
	t.Setenv("PLOT_SIZE_SQ_YD", "500")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/snapshots", cfg.Analysis.DataDir)
	assert.Equal(t, 15, cfg.Analysis.RunInterval)
	assert.InDelta(t, 500, cfg.Construction.PlotSizeSqYd, 1e-9)
}
