package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
)

// clearEnv blanks every variable the loader reads so the host environment can't leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YNAB_TOKEN", "YNAB_API_TOKEN", "BUDGET_NAME", "ACCOUNT_NAME", "YNAB_BASE_URL",
		"YNAB_REQUESTS_PER_HOUR", "YNAB_TIMEOUT_SECONDS", "TOLERANCE_DAYS", "AMOUNT_TOLERANCE",
		"MATCH_STRATEGY", "RECONCILE_DB_PATH", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("YNAB_TOKEN", "test-token")
	t.Setenv("BUDGET_NAME", "Household")
	t.Setenv("ACCOUNT_NAME", "Checking")
	t.Setenv("RECONCILE_DB_PATH", "test.db")

	cfg := LoadFromEnv()

	assert.Equal(t, "test-token", cfg.YNAB.Token)
	assert.Equal(t, "Household", cfg.YNAB.BudgetName)
	assert.Equal(t, "Checking", cfg.YNAB.AccountName)
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFromEnv()

	assert.Equal(t, DefaultToleranceDays, cfg.Matching.ToleranceDays)
	assert.Equal(t, "0.01", cfg.Matching.AmountTolerance)
	assert.Equal(t, "first_fit", cfg.Matching.Strategy)
	assert.Equal(t, 200, cfg.YNAB.RequestsPerHour)
	assert.Equal(t, 30, cfg.YNAB.TimeoutSeconds)
	assert.Equal(t, "", cfg.Storage.DatabasePath, "journal is off unless configured")
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECONCILE_DB_PATH", "fallback.db")

	// Try to load from non-existent file
	cfg := LoadOrEnv_WithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
ynab:
  token: "${TEST_YNAB_TOKEN}"
  budget_name: "Household"
  account_name: "Checking"
matching:
  tolerance_days: 3
  amount_tolerance: "0.05"
  strategy: closest
storage:
  database_path: "${TEST_DB_PATH}"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	t.Setenv("TEST_DB_PATH", "expanded.db")
	t.Setenv("TEST_YNAB_TOKEN", "expanded-token")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "expanded-token", cfg.YNAB.Token)
	assert.Equal(t, DefaultPort, cfg.API.Port)

	mc, err := cfg.MatcherConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, mc.DateTolerance)
	assert.True(t, decimal.RequireFromString("0.05").Equal(mc.AmountTolerance))
	assert.Equal(t, matcher.StrategyClosestDate, mc.Strategy)
}

func TestLoad_EnvFillsEmptyFields(t *testing.T) {
	clearEnv(t)
	t.Setenv("YNAB_TOKEN", "from-env")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("ynab:\n  budget_name: Household\n"), 0644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.YNAB.Token)
	assert.Equal(t, "Household", cfg.YNAB.BudgetName)
}

func TestValidate(t *testing.T) {
	t.Run("reports every problem", func(t *testing.T) {
		cfg := &Config{Matching: MatchingConfig{
			ToleranceDays:   -1,
			AmountTolerance: "abc",
			Strategy:        "first_fit",
		}}

		err := cfg.Validate()

		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "token")
		assert.Contains(t, msg, "budget name")
		assert.Contains(t, msg, "account name")
		assert.Contains(t, msg, "tolerance_days")
		assert.Contains(t, msg, "amount_tolerance")
	})

	t.Run("negative amount tolerance", func(t *testing.T) {
		cfg := &Config{Matching: MatchingConfig{AmountTolerance: "-0.01"}}
		_, err := cfg.MatcherConfig()
		assert.Error(t, err)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		cfg := &Config{Matching: MatchingConfig{AmountTolerance: "0.01", Strategy: "best"}}
		_, err := cfg.MatcherConfig()
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	// Missing file is fine
	require.NoError(t, LoadDotEnv())

	// Variables already present, even empty ones, are not overridden
	t.Cleanup(func() { os.Unsetenv("DOTENV_ONLY_VALUE") })
	content := "DOTENV_ONLY_VALUE=from-file\nBUDGET_NAME=FromDotEnv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))
	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-file", os.Getenv("DOTENV_ONLY_VALUE"))
	assert.Equal(t, "", os.Getenv("BUDGET_NAME"))
}

func TestGetAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("YNAB_API_TOKEN", "alt")
	cfg := &Config{}

	assert.Equal(t, "explicit", cfg.GetAPIKey("explicit", "YNAB_TOKEN"))
	assert.Equal(t, "alt", cfg.GetAPIKey("", "YNAB_TOKEN", "YNAB_API_TOKEN"))
	assert.Equal(t, "", cfg.GetAPIKey("", "NOT_SET_ANYWHERE_123"))
}
