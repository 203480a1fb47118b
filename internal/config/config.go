package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"benchgate/adapters/stats"
	"benchgate/domain/core"
	"benchgate/internal/errors"
)

// Config represents the complete application configuration. It is
// loaded once at startup, validated, and shared read-only by reference
// across workers; nothing mutates it after Load returns.
type Config struct {
	Quality  QualityConfig  `yaml:"quality"`
	Stats    StatsConfig    `yaml:"stats"`
	Decision DecisionConfig `yaml:"decision"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Paths    PathConfig     `yaml:"paths"`
	Workers  int            `yaml:"workers"`
}

// CVThresholds holds the coefficient-of-variation limits applied to one
// implementation's sample groups. The two implementations deliberately
// get different tolerances: one has deterministic memory behavior, the
// other has collector-driven variance.
type CVThresholds struct {
	MaxFlag float64 `yaml:"max_flag"` // above this the group is flagged high-cv
	Warning float64 `yaml:"warning"`  // above this the dataset rating degrades to warning
	Invalid float64 `yaml:"invalid"`  // above this the dataset rating is invalid
}

// QualityConfig holds quality-control thresholds.
type QualityConfig struct {
	CV                   CVThresholds                         `yaml:"cv"`
	CVOverrides          map[core.Implementation]CVThresholds `yaml:"cv_overrides"`
	OutlierIQRMultiplier float64                              `yaml:"outlier_iqr_multiplier"`
	MinValidSamples      int                                  `yaml:"min_valid_samples"`
	MinSuccessRate       float64                              `yaml:"min_success_rate"`
}

// CVFor returns the CV thresholds for an implementation, falling back
// to the shared defaults when no override is configured.
func (q QualityConfig) CVFor(impl core.Implementation) CVThresholds {
	if t, ok := q.CVOverrides[impl]; ok {
		return t
	}
	return q.CV
}

// StatsConfig holds inferential-statistics thresholds.
type StatsConfig struct {
	ConfidenceLevel   float64 `yaml:"confidence_level"`
	SignificanceAlpha float64 `yaml:"significance_alpha"`
	EffectSmall       float64 `yaml:"effect_size_small"`
	EffectMedium      float64 `yaml:"effect_size_medium"`
	EffectLarge       float64 `yaml:"effect_size_large"`
	MinDetectable     float64 `yaml:"minimum_detectable_effect"`
}

// EffectThresholds converts the configured cut points into the form the
// stats engine consumes.
func (s StatsConfig) EffectThresholds() stats.EffectThresholds {
	return stats.EffectThresholds{
		Small:                   s.EffectSmall,
		Medium:                  s.EffectMedium,
		Large:                   s.EffectLarge,
		MinimumDetectableEffect: s.MinDetectable,
	}
}

// DecisionConfig holds the weights of the confidence score and the
// majority share a winner needs before the recommendation picks a side.
type DecisionConfig struct {
	SignificanceWeight float64 `yaml:"significance_weight"`
	EffectSizeWeight   float64 `yaml:"effect_size_weight"`
	QualityWeight      float64 `yaml:"quality_weight"`
	DecisiveShare      float64 `yaml:"decisive_share"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig holds report API server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// PathConfig holds file system paths.
type PathConfig struct {
	ResultsFile string `yaml:"results_file"`
	OutputDir   string `yaml:"output_dir"`
}

// Default returns the configuration the engine ships with.
func Default() *Config {
	return &Config{
		Quality: QualityConfig{
			CV: CVThresholds{MaxFlag: 0.30, Warning: 0.40, Invalid: 0.60},
			CVOverrides: map[core.Implementation]CVThresholds{
				// A: deterministic memory behavior, tight tolerance.
				core.ImplementationA: {MaxFlag: 0.25, Warning: 0.35, Invalid: 0.50},
				// B: collector-driven variance, looser tolerance.
				core.ImplementationB: {MaxFlag: 0.40, Warning: 0.50, Invalid: 0.70},
			},
			OutlierIQRMultiplier: 1.5,
			MinValidSamples:      5,
			MinSuccessRate:       0.80,
		},
		Stats: StatsConfig{
			ConfidenceLevel:   0.95,
			SignificanceAlpha: 0.05,
			EffectSmall:       0.2,
			EffectMedium:      0.5,
			EffectLarge:       0.8,
			MinDetectable:     0.5,
		},
		Decision: DecisionConfig{
			SignificanceWeight: 0.4,
			EffectSizeWeight:   0.4,
			QualityWeight:      0.2,
			DecisiveShare:      0.6,
		},
		Server:  ServerConfig{Port: "8080"},
		Paths:   PathConfig{ResultsFile: "results.json", OutputDir: "reports"},
		Workers: 4,
	}
}

// Load reads configuration from an optional YAML file, applies
// environment overrides, and validates it. Invalid configuration is
// fatal at startup, not recoverable mid-run.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to parse config file"))
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Database.URL = getEnvOrDefault("DATABASE_URL", cfg.Database.URL)
	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
	cfg.Paths.ResultsFile = getEnvOrDefault("RESULTS_FILE", cfg.Paths.ResultsFile)
	cfg.Paths.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.Paths.OutputDir)
	cfg.Workers = getEnvIntOrDefault("ANALYSIS_WORKERS", cfg.Workers)
	cfg.Stats.SignificanceAlpha = getEnvFloatOrDefault("SIGNIFICANCE_ALPHA", cfg.Stats.SignificanceAlpha)
}

// Validate checks every threshold the engine depends on.
func (c *Config) Validate() error {
	q := c.Quality
	if q.OutlierIQRMultiplier <= 0 {
		return core.NewConfigError("quality.outlier_iqr_multiplier", "must be positive")
	}
	if q.MinValidSamples < 2 {
		return core.NewConfigError("quality.min_valid_samples", "must be at least 2")
	}
	if q.MinSuccessRate < 0 || q.MinSuccessRate > 1 {
		return core.NewConfigError("quality.min_success_rate", "must be in [0,1]")
	}
	thresholdSets := []CVThresholds{q.CV}
	for _, impl := range core.Implementations() {
		thresholdSets = append(thresholdSets, q.CVFor(impl))
	}
	for _, t := range thresholdSets {
		if t.MaxFlag <= 0 || t.Warning <= 0 || t.Invalid <= 0 {
			return core.NewConfigError("quality.cv", "thresholds must be positive")
		}
		if t.Warning > t.Invalid {
			return core.NewConfigError("quality.cv", "warning threshold must not exceed invalid threshold")
		}
	}

	s := c.Stats
	if s.SignificanceAlpha <= 0 || s.SignificanceAlpha >= 1 {
		return core.NewConfigError("stats.significance_alpha", "must be in (0,1)")
	}
	if s.ConfidenceLevel <= 0 || s.ConfidenceLevel >= 1 {
		return core.NewConfigError("stats.confidence_level", "must be in (0,1)")
	}
	if !(s.EffectSmall > 0 && s.EffectSmall < s.EffectMedium && s.EffectMedium < s.EffectLarge) {
		return core.NewConfigError("stats.effect_size", "cut points must be increasing and positive")
	}
	if s.MinDetectable <= 0 {
		return core.NewConfigError("stats.minimum_detectable_effect", "must be positive")
	}

	d := c.Decision
	if d.SignificanceWeight < 0 || d.EffectSizeWeight < 0 || d.QualityWeight < 0 {
		return core.NewConfigError("decision.weights", "must be non-negative")
	}
	if d.SignificanceWeight+d.EffectSizeWeight+d.QualityWeight <= 0 {
		return core.NewConfigError("decision.weights", "must not all be zero")
	}
	if d.DecisiveShare <= 0.5 || d.DecisiveShare > 1 {
		return core.NewConfigError("decision.decisive_share", "must be in (0.5,1]")
	}

	if c.Workers < 1 {
		return core.NewConfigError("workers", "must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
