// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	matcherCfg := cfg.Matcher.ToEngineConfig()
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openledger/bankrecon/internal/domain/engine"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Matcher       MatcherConfig       `yaml:"matcher"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// MatcherConfig holds the reconciliation tolerances
type MatcherConfig struct {
	AmountTolerance   float64 `yaml:"amount_tolerance"`
	DateToleranceDays int     `yaml:"date_tolerance_days"`
	FeeWindowFloor    float64 `yaml:"fee_window_floor"`
}

// ToEngineConfig converts the YAML section into an engine config,
// filling any unset tolerance with its default.
func (m MatcherConfig) ToEngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if m.AmountTolerance > 0 {
		cfg.AmountTolerance = m.AmountTolerance
	}
	if m.DateToleranceDays > 0 {
		cfg.DateToleranceDays = m.DateToleranceDays
	}
	if m.FeeWindowFloor > 0 {
		cfg.FeeWindowFloor = m.FeeWindowFloor
	}
	return cfg
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${BANKRECON_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("BANKRECON_PORT", 8080),
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("BANKRECON_DB_PATH", "bankrecon.db"),
		},
		Matcher: MatcherConfig{
			AmountTolerance:   getEnvFloat("BANKRECON_AMOUNT_TOLERANCE", 0.01),
			DateToleranceDays: getEnvInt("BANKRECON_DATE_TOLERANCE_DAYS", 5),
			FeeWindowFloor:    getEnvFloat("BANKRECON_FEE_WINDOW_FLOOR", 0.96),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var result float64
		if _, err := fmt.Sscanf(val, "%g", &result); err == nil {
			return result
		}
	}
	return fallback
}
