package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxConcurrentStreams)
	assert.Equal(t, uint64(1000), cfg.DefaultCredits)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("PJS_MAX_CONCURRENT_STREAMS", "16")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.MaxConcurrentStreams)
}

func TestValidateRejectsZeroMaxConcurrentStreams(t *testing.T) {
	cfg := &Config{MaxConcurrentStreams: 0, DefaultCredits: 1, PriorityThreshold: 1, CPUPauseThreshold: 90, CPUSlowDownThreshold: 80}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := &Config{MaxConcurrentStreams: 1, DefaultCredits: 1, PriorityThreshold: 1, CPUPauseThreshold: 50, CPUSlowDownThreshold: 80}
	assert.Error(t, cfg.Validate())
}

