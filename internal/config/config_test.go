package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := Load("/nonexistent/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 0.6, cfg.Scoring.LLMBlend)
		assert.Len(t, cfg.LLM.Temperatures, 3)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeFile(t, "config.yaml", `
server:
  port: "9090"
llm:
  model: custom-model
  timeout_seconds: 45
scoring:
  outlier_threshold: 2.5
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "custom-model", cfg.LLM.Model)
		assert.Equal(t, 45, cfg.LLM.TimeoutSeconds)
		assert.Equal(t, 2.5, cfg.Scoring.OutlierThreshold)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "server: [not a mapping")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides file and defaults", func(t *testing.T) {
		t.Setenv("PORT", "7070")
		t.Setenv("LLM_MODEL_NAME", "env-model")
		t.Setenv("LLM_TIMEOUT_SECONDS", "90")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, "env-model", cfg.LLM.Model)
		assert.Equal(t, 90, cfg.LLM.TimeoutSeconds)
	})

	t.Run("invalid timeout override is ignored", func(t *testing.T) {
		t.Setenv("LLM_TIMEOUT_SECONDS", "not-a-number")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	})
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "30s", cfg.LLM.Timeout().String())
	assert.Equal(t, "15m0s", cfg.Server.CacheTTL().String())
}

func TestLoadTables(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		tables, err := LoadTables("")
		require.NoError(t, err)
		assert.NotEmpty(t, tables.References)
		assert.Empty(t, tables.Cohorts)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		tables, err := LoadTables("/nonexistent/tables.yaml")
		require.NoError(t, err)
		assert.NotEmpty(t, tables.References)
	})

	t.Run("cohorts load from file", func(t *testing.T) {
		path := writeFile(t, "tables.yaml", `
cohorts:
  saas_seed:
    traction:
      mean: 60
      median: 62
      std: 15
      sample_count: 120
`)
		tables, err := LoadTables(path)
		require.NoError(t, err)

		stats, ok := tables.CohortStore().Lookup("saas", "seed", "traction")
		assert.True(t, ok)
		assert.Equal(t, 60.0, stats.Mean)
		assert.Equal(t, 120, stats.SampleCount)
	})

	t.Run("absent sections keep defaults", func(t *testing.T) {
		path := writeFile(t, "tables.yaml", "benchmarks: {}\n")
		tables, err := LoadTables(path)
		require.NoError(t, err)
		assert.NotEmpty(t, tables.References)
	})

	t.Run("malformed tables file is an error", func(t *testing.T) {
		path := writeFile(t, "tables.yaml", "cohorts: [broken")
		_, err := LoadTables(path)
		assert.Error(t, err)
	})
}
