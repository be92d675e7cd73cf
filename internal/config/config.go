package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/external"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL            string
	HTTPPort               string
	AdminAPIKey            string
	TruncgilURL            string
	TruncgilDelay          time.Duration
	TruncgilRetryMax       int
	QuoteWorkerInterval    time.Duration
	SnapshotWorkerInterval time.Duration
	PriceCacheTTL          time.Duration
	FallbackPrices         map[domain.Series]decimal.Decimal
	GoogleSheetsID         string
	GoogleCredentialsJSON  string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return Config{
		DatabaseURL:            envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:            envOrDefault("ADMIN_API_KEY", ""),
		TruncgilURL:            envOrDefault("TRUNCGIL_URL", external.DefaultTruncgilURL),
		TruncgilDelay:          envOrDefaultDuration("TRUNCGIL_DELAY", 2*time.Second),
		TruncgilRetryMax:       envOrDefaultInt("TRUNCGIL_RETRY_MAX", 5),
		QuoteWorkerInterval:    envOrDefaultPositiveDuration("QUOTE_WORKER_INTERVAL", 1*time.Hour),
		SnapshotWorkerInterval: envOrDefaultPositiveDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),
		PriceCacheTTL:          envOrDefaultDuration("PRICE_CACHE_TTL", 30*time.Second),
		FallbackPrices:         ParseFallbackPrices(os.Getenv("FALLBACK_PRICES")),
		GoogleSheetsID:         envOrDefault("GOOGLE_SHEETS_ID", ""),
		GoogleCredentialsJSON:  envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

// ParseFallbackPrices parses "usd=33.5,eur=36" into a per-series price table.
// Invalid entries are skipped with a warning.
func ParseFallbackPrices(s string) map[domain.Series]decimal.Decimal {
	prices := make(map[domain.Series]decimal.Decimal)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			slog.Warn("invalid fallback price entry, skipping", "entry", entry)
			continue
		}
		series, err := domain.ParseSeries(strings.TrimSpace(name))
		if err != nil {
			slog.Warn("invalid fallback price series, skipping", "entry", entry, "error", err)
			continue
		}
		p := domain.SafeParse(strings.TrimSpace(value))
		if !p.IsPositive() {
			slog.Warn("invalid fallback price value, skipping", "entry", entry)
			continue
		}
		prices[series] = p
	}
	return prices
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

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
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
		return d
	}
	return defaultVal
}

func envOrDefaultPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	d := envOrDefaultDuration(key, defaultVal)
	if d <= 0 {
		slog.Warn("non-positive duration env var, using default", "key", key, "value", d, "default", defaultVal)
		return defaultVal
	}
	return d
}
