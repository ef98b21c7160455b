package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Trials)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, 500, cfg.RoundCap)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, strings.HasSuffix(cfg.ReportDir, filepath.Join(".skirmish", "reports")))
}

func TestLoad_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKIRMISH_TRIALS", "200")
	t.Setenv("SKIRMISH_WORKERS", "3")
	t.Setenv("SKIRMISH_SEED", "-7")
	t.Setenv("SKIRMISH_ROUND_CAP", "0")
	t.Setenv("SKIRMISH_LOG_LEVEL", "debug")
	t.Setenv("SKIRMISH_REPORT_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Trials:    200,
		Workers:   3,
		Seed:      -7,
		RoundCap:  0,
		LogLevel:  "debug",
		ReportDir: dir,
	}, cfg)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("SKIRMISH_TRIALS", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	cfg := Config{Trials: 0, Workers: -1, RoundCap: -2, LogLevel: "loud"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"SKIRMISH_TRIALS", "SKIRMISH_WORKERS", "SKIRMISH_ROUND_CAP", "SKIRMISH_LOG_LEVEL"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestRunnerRoundCap(t *testing.T) {
	assert.Equal(t, -1, Config{RoundCap: 0}.RunnerRoundCap())
	assert.Equal(t, 40, Config{RoundCap: 40}.RunnerRoundCap())
}
