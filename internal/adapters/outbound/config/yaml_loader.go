package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".laundrydesk.yaml"

// EnvPrefix prefixes every environment override, e.g. LAUNDRYDESK_BACKEND.
const EnvPrefix = "LAUNDRYDESK"

// YAMLLoader reads .laundrydesk.yaml, then an optional .env file, then the
// LAUNDRYDESK_* environment. Later sources win.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads FileName from dir.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	return l.LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads the given config file. A missing file yields defaults.
// Relative data paths are resolved against the file's directory.
func (l *YAMLLoader) LoadFile(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	name := filepath.Base(path)
	baseDir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return domain.Config{}, err
	}

	if err := godotenv.Load(filepath.Join(baseDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, fmt.Errorf("reading .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	return resolvePaths(cfg, baseDir), nil
}

// resolvePaths makes DataDir absolute relative to baseDir and SQLitePath
// relative to DataDir.
func resolvePaths(cfg domain.Config, baseDir string) domain.Config {
	if cfg.DataDir == "" {
		cfg.DataDir = domain.DefaultConfig().DataDir
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(baseDir, cfg.DataDir)
	}
	if cfg.SQLitePath != "" && !filepath.IsAbs(cfg.SQLitePath) {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, cfg.SQLitePath)
	}
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.SQLitePath != "" {
		if abs, err := filepath.Abs(cfg.SQLitePath); err == nil {
			cfg.SQLitePath = abs
		}
	}
	return cfg
}
