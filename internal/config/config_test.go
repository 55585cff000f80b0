package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.TimeLimit)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 20*time.Second, cfg.IISTimeout)
	assert.False(t, cfg.SkipIIS)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("COURSESCHED_SOLVER_TIME_LIMIT", "5m")
	t.Setenv("COURSESCHED_SOLVER_THREADS", "16")
	t.Setenv("COURSESCHED_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.TimeLimit)
	assert.Equal(t, 16, cfg.Threads)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsNonPositiveTimeLimit(t *testing.T) {
	t.Setenv("COURSESCHED_SOLVER_TIME_LIMIT", "0s")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveThreads(t *testing.T) {
	os.Unsetenv("COURSESCHED_SOLVER_TIME_LIMIT")
	t.Setenv("COURSESCHED_SOLVER_THREADS", "0")
	_, err := Load()
	assert.Error(t, err)
}
