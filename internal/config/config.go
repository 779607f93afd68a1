package config

import (
	"os"
	"strconv"
	"strings"

	"dqsuggest/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Suggestion SuggestionConfig
	Database   DatabaseConfig
	Server     ServerConfig
}

// SuggestionConfig holds the knobs of a suggestion run. Zero SplitRatio
// disables the train/test split.
type SuggestionConfig struct {
	SplitRatio      float64  // train fraction in (0,1); 0 disables splitting
	Seed            int64    // seed for the deterministic split
	ExcludedColumns []string // columns never profiled or suggested on
	DisabledRules   []string // rule names switched off for the run
	HistogramCap    int      // max distinct values before the histogram is dropped
	SketchThreshold int      // distinct values before falling back to the sketch
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// Defaults for the suggestion knobs.
const (
	DefaultHistogramCap    = 256
	DefaultSketchThreshold = 10000
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Suggestion: SuggestionConfig{
			SplitRatio:      getEnvFloatOrDefault("SPLIT_RATIO", 0),
			Seed:            int64(getEnvIntOrDefault("SPLIT_SEED", 0)),
			ExcludedColumns: getEnvListOrDefault("EXCLUDED_COLUMNS", nil),
			DisabledRules:   getEnvListOrDefault("DISABLED_RULES", nil),
			HistogramCap:    getEnvIntOrDefault("HISTOGRAM_CAP", DefaultHistogramCap),
			SketchThreshold: getEnvIntOrDefault("SKETCH_THRESHOLD", DefaultSketchThreshold),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	s := config.Suggestion
	if s.SplitRatio != 0 && (s.SplitRatio <= 0 || s.SplitRatio >= 1) {
		return errors.ConfigInvalidf("SPLIT_RATIO must be in (0,1), got %v", s.SplitRatio)
	}
	if s.HistogramCap < 1 {
		return errors.ConfigInvalid("HISTOGRAM_CAP must be positive")
	}
	if s.SketchThreshold < 1 {
		return errors.ConfigInvalid("SKETCH_THRESHOLD must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return defaultValue
}
