// Package config loads application configuration from the environment.
// Every analysis threshold lives here rather than as a package constant, so
// tests can vary them per case.
package config

import (
	"os"
	"strconv"
	"time"

	"edanalyzer/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Cleaning CleaningConfig
	Ingest   IngestConfig
	Plots    PlotConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	// MaxUploadBytes bounds the accepted file size
	MaxUploadBytes int64
}

// AIConfig holds settings for the generative AI backend
type AIConfig struct {
	Enabled       bool
	APIKey        string
	Model         string
	BaseURL       string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
	// SampleRows is how many head rows are included in the dataset context
	// sent to the backend
	SampleRows int
}

// CleaningConfig holds the cleaning engine thresholds
type CleaningConfig struct {
	// MissingDropThreshold is the missing-value fraction above which a
	// column is dropped entirely
	MissingDropThreshold float64
	// OutlierIQRFactor is the IQR multiple beyond which numeric values are
	// capped to the nearest bound
	OutlierIQRFactor float64
	// CoercionSuccessRate is the fraction of values that must parse for a
	// text column to be converted to numeric during cleaning
	CoercionSuccessRate float64
}

// IngestConfig holds type inference thresholds for raw file parsing
type IngestConfig struct {
	NumericThreshold   float64 // fraction of values that must parse as numbers
	BooleanThreshold   float64 // fraction of values that must parse as booleans
	TimestampThreshold float64 // fraction of values that must parse as timestamps
	// CategoricalUniqueRatio: string columns whose distinct/total ratio is
	// at or below this are categorical, above it plain text
	CategoricalUniqueRatio float64
	SampleValues           int // sample values kept per column profile
}

// PlotConfig bounds the static visualization battery
type PlotConfig struct {
	// MaxPlotColumns caps how many distribution / category plots are
	// rendered, picked by informativeness
	MaxPlotColumns int
	// MaxCategories caps the bars shown in a categorical frequency plot
	MaxCategories int
	// Workers bounds concurrent plot rendering
	Workers int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server:   loadServerConfig(),
		AI:       loadAIConfig(),
		Cleaning: DefaultCleaningConfig(),
		Ingest:   DefaultIngestConfig(),
		Plots:    DefaultPlotConfig(),
	}

	cfg.Cleaning.MissingDropThreshold = getEnvFloatOrDefault("CLEAN_MISSING_DROP_THRESHOLD", cfg.Cleaning.MissingDropThreshold)
	cfg.Cleaning.OutlierIQRFactor = getEnvFloatOrDefault("CLEAN_OUTLIER_IQR_FACTOR", cfg.Cleaning.OutlierIQRFactor)
	cfg.Plots.MaxPlotColumns = getEnvIntOrDefault("PLOT_MAX_COLUMNS", cfg.Plots.MaxPlotColumns)
	cfg.Plots.MaxCategories = getEnvIntOrDefault("PLOT_MAX_CATEGORIES", cfg.Plots.MaxCategories)

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// DefaultCleaningConfig returns the standard cleaning thresholds
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		MissingDropThreshold: 0.5,
		OutlierIQRFactor:     1.5,
		CoercionSuccessRate:  0.7,
	}
}

// DefaultIngestConfig returns the standard type inference thresholds
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		NumericThreshold:       0.8,
		BooleanThreshold:       0.9,
		TimestampThreshold:     0.8,
		CategoricalUniqueRatio: 0.5,
		SampleValues:           5,
	}
}

// DefaultPlotConfig returns the standard plot battery bounds
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		MaxPlotColumns: 6,
		MaxCategories:  10,
		Workers:        4,
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
	}
}

func loadAIConfig() AIConfig {
	key := os.Getenv("OPENAI_API_KEY")
	return AIConfig{
		// AI is best-effort: no key means the pipeline simply runs without it
		Enabled:       key != "" && getEnvBoolOrDefault("AI_ENABLED", true),
		APIKey:        key,
		Model:         getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:       getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		SystemContext: "You are an expert data analyst helping with exploratory data analysis",
		MaxTokens:     getEnvIntOrDefault("LLM_MAX_TOKENS", 2000),
		Temperature:   getEnvFloatOrDefault("LLM_TEMPERATURE", 0.1),
		Timeout:       time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		SampleRows:    getEnvIntOrDefault("LLM_SAMPLE_ROWS", 3),
	}
}

func validate(cfg *Config) error {
	if cfg.Cleaning.MissingDropThreshold <= 0 || cfg.Cleaning.MissingDropThreshold > 1 {
		return errors.ConfigInvalid("CLEAN_MISSING_DROP_THRESHOLD must be in (0, 1]")
	}
	if cfg.Cleaning.OutlierIQRFactor <= 0 {
		return errors.ConfigInvalid("CLEAN_OUTLIER_IQR_FACTOR must be positive")
	}
	if cfg.Plots.MaxPlotColumns < 1 {
		return errors.ConfigInvalid("PLOT_MAX_COLUMNS must be at least 1")
	}
	if cfg.AI.Enabled && cfg.AI.Timeout <= 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT_MS must be positive when AI is enabled")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
