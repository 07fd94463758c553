package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig tunes the metric algorithms.
type AnalysisConfig struct {
	PageRankAlpha     float64 `mapstructure:"pagerank_alpha"`
	PageRankMaxIter   int     `mapstructure:"pagerank_max_iter"`
	PageRankTolerance float64 `mapstructure:"pagerank_tolerance"`
	TopN              int     `mapstructure:"top_n"`
}

type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type TemporalConfig struct {
	Host      string `mapstructure:"host"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Environment  string  `mapstructure:"environment"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	// Damping factor must stay in (0, 1); 0 disables link structure, 1
	// never teleports.
	if c.Analysis.PageRankAlpha != 0 && (c.Analysis.PageRankAlpha <= 0 || c.Analysis.PageRankAlpha >= 1) {
		warnings = append(warnings, fmt.Sprintf("analysis pagerank_alpha %.2f is outside (0.0, 1.0)", c.Analysis.PageRankAlpha))
	}

	if c.Analysis.PageRankMaxIter < 0 {
		warnings = append(warnings, fmt.Sprintf("analysis pagerank_max_iter %d is negative", c.Analysis.PageRankMaxIter))
	}

	if c.Analysis.PageRankTolerance < 0 {
		warnings = append(warnings, fmt.Sprintf("analysis pagerank_tolerance %g is negative", c.Analysis.PageRankTolerance))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}

	if c.Graph.URI != "" && c.Graph.Username == "" {
		warnings = append(warnings, fmt.Sprintf("graph store '%s' is configured but username is empty", c.Graph.URI))
	}

	return warnings
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("DEPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}
