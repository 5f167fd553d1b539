package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DataMode selects where holdings come from.
type DataMode string

const (
	// DataModeMock serves a built-in demo scenario without a database.
	DataModeMock DataMode = "mock"
	// DataModeLive reads holdings, tags and snapshots from Postgres.
	DataModeLive DataMode = "live"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataMode                DataMode
	Scenario                string
	PortfolioID             string
	DatabaseURL             string
	EODURL                  string
	EODAPIKey               string
	EODRequestsPerSecond    int
	EODDelay                time.Duration
	EODRetryMax             int
	QuoteStaleThreshold     time.Duration
	QuoteWorkerInterval     time.Duration
	BenchmarkWorkerInterval time.Duration
	ReportWorkerInterval    time.Duration
	GoogleSheetsID          string
	GoogleCredentialsJSON   string
	AdminAPIKey             string
	HTTPPort                string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DataMode:                parseDataMode(envOrDefault("DATA_MODE", string(DataModeMock))),
		Scenario:                envOrDefault("MOCK_SCENARIO", "balanced"),
		PortfolioID:             envOrDefault("PORTFOLIO_ID", "demo"),
		DatabaseURL:             envOrDefault("DATABASE_URL", ""),
		EODURL:                  envOrDefault("EOD_URL", "https://eodhd.com/api"),
		EODAPIKey:               envOrDefault("EOD_API_KEY", ""),
		EODRequestsPerSecond:    envOrDefaultInt("EOD_REQUESTS_PER_SECOND", 2, 1),
		EODDelay:                envOrDefaultDuration("EOD_DELAY", 2*time.Second),
		EODRetryMax:             envOrDefaultInt("EOD_RETRY_MAX", 5, 0),
		QuoteStaleThreshold:     envOrDefaultDuration("QUOTE_STALE_THRESHOLD", 2*time.Hour),
		QuoteWorkerInterval:     envOrDefaultDuration("QUOTE_WORKER_INTERVAL", 1*time.Hour),
		BenchmarkWorkerInterval: envOrDefaultDuration("BENCHMARK_WORKER_INTERVAL", 6*time.Hour),
		ReportWorkerInterval:    envOrDefaultDuration("REPORT_WORKER_INTERVAL", 24*time.Hour),
		GoogleSheetsID:          envOrDefault("GOOGLE_SHEETS_ID", ""),
		GoogleCredentialsJSON:   envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		AdminAPIKey:             envOrDefault("ADMIN_API_KEY", ""),
		HTTPPort:                envOrDefault("HTTP_PORT", "8080"),
	}

	if cfg.DataMode == DataModeLive {
		cfg.DatabaseURL = envOrDefaultWarn("DATABASE_URL", "")
		cfg.EODAPIKey = envOrDefaultWarn("EOD_API_KEY", "")
	}
	return cfg
}

// Live reports whether holdings are read from the database.
func (c Config) Live() bool { return c.DataMode == DataModeLive }

// SheetsEnabled reports whether Google Sheets export is configured.
func (c Config) SheetsEnabled() bool {
	return c.GoogleSheetsID != "" && c.GoogleCredentialsJSON != ""
}

func parseDataMode(v string) DataMode {
	switch m := DataMode(strings.ToLower(strings.TrimSpace(v))); m {
	case DataModeMock, DataModeLive:
		return m
	default:
		slog.Warn("invalid DATA_MODE, using mock", "value", v)
		return DataModeMock
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

// envOrDefaultInt reads an integer of at least minVal.
func envOrDefaultInt(key string, defaultVal, minVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		if n < minVal {
			slog.Warn("integer env var out of range, using default", "key", key, "value", n, "min", minVal, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		if d <= 0 {
			slog.Warn("duration env var must be positive, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
