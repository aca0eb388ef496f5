package domain

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Backend selects the KVStore implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ValidBackends enumerates all recognized storage backends.
var ValidBackends = []Backend{BackendFile, BackendSQLite}

// ValidLogLevels enumerates accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats enumerates accepted log_format values.
var ValidLogFormats = []string{"text", "json"}

// Config holds application configuration loaded from .laundrydesk.yaml and
// the LAUNDRYDESK_* environment.
type Config struct {
	ShopName          string       `yaml:"shop_name"          json:"shop_name"          envconfig:"SHOP_NAME"`
	DataDir           string       `yaml:"data_dir"           json:"data_dir"           envconfig:"DATA_DIR"`
	Backend           Backend      `yaml:"backend"            json:"backend"            envconfig:"BACKEND"`
	SQLitePath        string       `yaml:"sqlite_path"        json:"sqlite_path"        envconfig:"SQLITE_PATH"`
	Timezone          string       `yaml:"timezone"           json:"timezone"           envconfig:"TIMEZONE"`
	LogLevel          string       `yaml:"log_level"          json:"log_level"          envconfig:"LOG_LEVEL"`
	LogFormat         string       `yaml:"log_format"         json:"log_format"         envconfig:"LOG_FORMAT"`
	SnapshotSchedule  string       `yaml:"snapshot_schedule"  json:"snapshot_schedule"  envconfig:"SNAPSHOT_SCHEDULE"`
	// SnapshotRetention caps how many metrics snapshots are kept. Zero keeps all.
	SnapshotRetention int          `yaml:"snapshot_retention" json:"snapshot_retention" envconfig:"SNAPSHOT_RETENTION"`
	WriteRetry        RetryConfig  `yaml:"write_retry"        json:"write_retry"        envconfig:"WRITE_RETRY"`
	Auth              AuthConfig   `yaml:"auth"               json:"auth"               envconfig:"AUTH"`
	Currency          CurrencyConf `yaml:"currency"           json:"currency"           envconfig:"CURRENCY"`
}

// RetryConfig controls how often a failed write is retried before it is
// reported.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" json:"max_retries" envconfig:"MAX_RETRIES"`
	Interval   time.Duration `yaml:"interval"    json:"interval"    envconfig:"INTERVAL"`
}

// AuthConfig holds the single operator credential. An empty PasswordHash
// disables the login gate.
type AuthConfig struct {
	Username     string `yaml:"username"      json:"username"      envconfig:"USERNAME"`
	PasswordHash string `yaml:"password_hash" json:"-"             envconfig:"PASSWORD_HASH"`
}

// Enabled reports whether a credential is configured.
func (a AuthConfig) Enabled() bool { return a.PasswordHash != "" }

// CurrencyConf controls money formatting.
type CurrencyConf struct {
	Symbol string `yaml:"symbol" json:"symbol" envconfig:"SYMBOL"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		ShopName:          "Laundry Desk",
		DataDir:           ".laundrydesk",
		Backend:           BackendFile,
		SQLitePath:        "laundrydesk.db",
		Timezone:          "Local",
		LogLevel:          "warn",
		LogFormat:         "text",
		SnapshotSchedule:  "@midnight",
		SnapshotRetention: 90,
		WriteRetry: RetryConfig{
			MaxRetries: 3,
			Interval:   200 * time.Millisecond,
		},
		Auth:     AuthConfig{Username: "admin"},
		Currency: CurrencyConf{Symbol: "$"},
	}
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate checks that all config values are within acceptable ranges.
func (c Config) Validate() error {
	if c.Backend != "" && !contains(ValidBackends, c.Backend) {
		return fmt.Errorf("unknown backend %q (valid: file, sqlite)", c.Backend)
	}
	if c.LogLevel != "" && !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "" && !contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("unknown log_format %q (valid: text, json)", c.LogFormat)
	}
	if c.WriteRetry.MaxRetries < 0 {
		return fmt.Errorf("write_retry.max_retries must be >= 0, got %d", c.WriteRetry.MaxRetries)
	}
	if c.WriteRetry.Interval < 0 {
		return fmt.Errorf("write_retry.interval must be >= 0, got %s", c.WriteRetry.Interval)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	if c.SnapshotSchedule != "" {
		if _, err := cron.ParseStandard(c.SnapshotSchedule); err != nil {
			return fmt.Errorf("invalid snapshot_schedule %q: %w", c.SnapshotSchedule, err)
		}
	}
	if c.SnapshotRetention < 0 {
		return fmt.Errorf("snapshot_retention must be >= 0, got %d", c.SnapshotRetention)
	}
	if c.Auth.Enabled() && c.Auth.Username == "" {
		return fmt.Errorf("auth.username is required when auth.password_hash is set")
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
