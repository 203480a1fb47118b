package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchgate/domain/core"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_PerImplementationThresholds(t *testing.T) {
	q := Default().Quality

	a := q.CVFor(core.ImplementationA)
	b := q.CVFor(core.ImplementationB)

	assert.Less(t, a.MaxFlag, b.MaxFlag, "A should carry the tighter tolerance")
	assert.Less(t, a.Invalid, b.Invalid)

	// Unknown implementations fall back to the shared defaults.
	assert.Equal(t, q.CV, q.CVFor(core.Implementation("X")))
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iqr multiplier", func(c *Config) { c.Quality.OutlierIQRMultiplier = 0 }},
		{"min samples below 2", func(c *Config) { c.Quality.MinValidSamples = 1 }},
		{"success rate above 1", func(c *Config) { c.Quality.MinSuccessRate = 1.5 }},
		{"warning above invalid", func(c *Config) {
			c.Quality.CVOverrides[core.ImplementationA] = CVThresholds{MaxFlag: 0.2, Warning: 0.9, Invalid: 0.5}
		}},
		{"alpha at 1", func(c *Config) { c.Stats.SignificanceAlpha = 1 }},
		{"non-increasing effect cuts", func(c *Config) { c.Stats.EffectMedium = 0.1 }},
		{"zero mde", func(c *Config) { c.Stats.MinDetectable = 0 }},
		{"negative weight", func(c *Config) { c.Decision.EffectSizeWeight = -0.1 }},
		{"all-zero weights", func(c *Config) {
			c.Decision.SignificanceWeight = 0
			c.Decision.EffectSizeWeight = 0
			c.Decision.QualityWeight = 0
		}},
		{"decisive share at half", func(c *Config) { c.Decision.DecisiveShare = 0.5 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, core.IsFatal(err), "config errors are fatal")
		})
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
quality:
  outlier_iqr_multiplier: 3.0
  min_valid_samples: 10
stats:
  significance_alpha: 0.01
workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Quality.OutlierIQRMultiplier)
	assert.Equal(t, 10, cfg.Quality.MinValidSamples)
	assert.Equal(t, 0.01, cfg.Stats.SignificanceAlpha)
	assert.Equal(t, 2, cfg.Workers)

	// Untouched sections keep their defaults.
	assert.Equal(t, 0.8, cfg.Stats.EffectLarge)
	assert.Equal(t, 0.6, cfg.Decision.DecisiveShare)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_WORKERS", "9")
	t.Setenv("SIGNIFICANCE_ALPHA", "0.10")
	t.Setenv("OUTPUT_DIR", "/tmp/reports")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, 0.10, cfg.Stats.SignificanceAlpha)
	assert.Equal(t, "/tmp/reports", cfg.Paths.OutputDir)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quality: [not, a, map]"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
