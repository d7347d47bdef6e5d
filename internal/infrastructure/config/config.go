// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback, and for anything the file leaves empty)
//
// A .env file in the working directory is read first with LoadDotEnv; it
// never overrides variables already set in the environment.
//
// Example usage:
//
//	config.LoadDotEnv()
//	cfg := config.LoadOrEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	matchCfg, _ := cfg.MatcherConfig()
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
)

// Config represents the entire application configuration
type Config struct {
	YNAB          YNABConfig          `yaml:"ynab"`
	Matching      MatchingConfig      `yaml:"matching"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// YNABConfig holds YNAB API configuration
type YNABConfig struct {
	Token           string `yaml:"token"`
	BudgetName      string `yaml:"budget_name"`
	AccountName     string `yaml:"account_name"`
	BaseURL         string `yaml:"base_url"`
	RequestsPerHour int    `yaml:"requests_per_hour"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP timeout as a duration
func (y YNABConfig) Timeout() time.Duration {
	return time.Duration(y.TimeoutSeconds) * time.Second
}

// MatchingConfig holds transaction matching settings
type MatchingConfig struct {
	ToleranceDays   int    `yaml:"tolerance_days"`
	AmountTolerance string `yaml:"amount_tolerance"`
	Strategy        string `yaml:"strategy"`
}

// StorageConfig holds database configuration. An empty path disables the audit journal.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
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

const (
	DefaultToleranceDays   = 5
	DefaultAmountTolerance = "0.01"
	DefaultPort            = 8080
)

// LoadDotEnv loads .env from the working directory if present
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${YNAB_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.fillFromEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		YNAB: YNABConfig{
			BaseURL:         os.Getenv("YNAB_BASE_URL"),
			RequestsPerHour: getEnvInt("YNAB_REQUESTS_PER_HOUR", 200),
			TimeoutSeconds:  getEnvInt("YNAB_TIMEOUT_SECONDS", 30),
		},
		Matching: MatchingConfig{
			ToleranceDays:   getEnvInt("TOLERANCE_DAYS", DefaultToleranceDays),
			AmountTolerance: getEnv("AMOUNT_TOLERANCE", DefaultAmountTolerance),
			Strategy:        getEnv("MATCH_STRATEGY", string(matcher.StrategyFirstFit)),
		},
		Storage: StorageConfig{
			DatabasePath: os.Getenv("RECONCILE_DB_PATH"),
		},
		API: APIConfig{
			Port: getEnvInt("API_PORT", DefaultPort),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.fillFromEnv()
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) fillFromEnv() {
	c.YNAB.Token = c.GetAPIKey(c.YNAB.Token, "YNAB_TOKEN", "YNAB_API_TOKEN")
	c.YNAB.BudgetName = c.GetAPIKey(c.YNAB.BudgetName, "BUDGET_NAME")
	c.YNAB.AccountName = c.GetAPIKey(c.YNAB.AccountName, "ACCOUNT_NAME")
}

func (c *Config) applyDefaults() {
	if c.YNAB.RequestsPerHour == 0 {
		c.YNAB.RequestsPerHour = 200
	}
	if c.YNAB.TimeoutSeconds == 0 {
		c.YNAB.TimeoutSeconds = 30
	}
	if c.Matching.AmountTolerance == "" {
		c.Matching.AmountTolerance = DefaultAmountTolerance
	}
	if c.Matching.Strategy == "" {
		c.Matching.Strategy = string(matcher.StrategyFirstFit)
	}
	if c.API.Port == 0 {
		c.API.Port = DefaultPort
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// Validate checks everything a reconcile run needs and returns all problems at once
func (c *Config) Validate() error {
	var errs []error

	if c.YNAB.Token == "" {
		errs = append(errs, errors.New("ynab token is required (YNAB_TOKEN)"))
	}
	if c.YNAB.BudgetName == "" {
		errs = append(errs, errors.New("budget name is required (BUDGET_NAME)"))
	}
	if c.YNAB.AccountName == "" {
		errs = append(errs, errors.New("account name is required (ACCOUNT_NAME)"))
	}
	if c.Matching.ToleranceDays < 0 {
		errs = append(errs, fmt.Errorf("tolerance_days must be >= 0, got %d", c.Matching.ToleranceDays))
	}
	if _, err := c.MatcherConfig(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// MatcherConfig converts the matching section into a matcher.Config
func (c *Config) MatcherConfig() (matcher.Config, error) {
	tolerance, err := decimal.NewFromString(c.Matching.AmountTolerance)
	if err != nil {
		return matcher.Config{}, fmt.Errorf("invalid amount_tolerance %q: %w", c.Matching.AmountTolerance, err)
	}
	if tolerance.IsNegative() {
		return matcher.Config{}, fmt.Errorf("amount_tolerance must be >= 0, got %s", tolerance)
	}

	strategy, err := matcher.ParseStrategy(c.Matching.Strategy)
	if err != nil {
		return matcher.Config{}, err
	}

	return matcher.Config{
		DateTolerance:   c.Matching.ToleranceDays,
		AmountTolerance: tolerance,
		Strategy:        strategy,
	}, nil
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

// GetAPIKey retrieves a value from config first, then tries multiple environment variable names
// Usage: GetAPIKey(cfg.YNAB.Token, "YNAB_TOKEN", "YNAB_API_TOKEN")
func (c *Config) GetAPIKey(configValue string, envVarNames ...string) string {
	// First, try the config value
	if configValue != "" {
		return configValue
	}

	// Then try each environment variable in order
	for _, envVar := range envVarNames {
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}

	return ""
}
