// Package config loads server settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"bemine/internal/engine"
	"bemine/internal/session"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "bemine.yaml"

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Prank   PrankConfig   `yaml:"prank"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

// PrankConfig tunes the evasion engine and prank lifetime.
type PrankConfig struct {
	Padding       float64       `yaml:"padding"`
	RepelRadius   float64       `yaml:"repel_radius"`
	MaxDecoys     int           `yaml:"max_decoys"`
	DecoysPerMove int           `yaml:"decoys_per_move"`
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	MaxMounts     int           `yaml:"max_mounts"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 15 * time.Second,
			ReadTimeout:    10 * time.Second,
			IdleTimeout:    60 * time.Second,
		},
		Prank: PrankConfig{
			Padding:       engine.DefaultPadding,
			RepelRadius:   engine.DefaultRepelRadius,
			MaxDecoys:     engine.DefaultMaxDecoys,
			DecoysPerMove: engine.DefaultDecoysPerMove,
			IdleTTL:       session.DefaultIdleTTL,
			MaxMounts:     session.DefaultMaxMounts,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	if base := strings.TrimSpace(os.Getenv("BASE_URL")); base != "" {
		c.Server.BaseURL = base
	}
	if level := strings.TrimSpace(os.Getenv("BEMINE_LOG_LEVEL")); level != "" {
		c.Logging.Level = level
	}
}

// Validate rejects settings the engine cannot work with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Prank.Padding < 0 {
		return fmt.Errorf("prank.padding must not be negative, got %v", c.Prank.Padding)
	}
	if c.Prank.RepelRadius <= 0 {
		return fmt.Errorf("prank.repel_radius must be positive, got %v", c.Prank.RepelRadius)
	}
	if c.Prank.MaxDecoys < 0 || c.Prank.DecoysPerMove < 0 {
		return errors.New("prank decoy counts must not be negative")
	}
	if c.Prank.MaxMounts < 0 {
		return fmt.Errorf("prank.max_mounts must not be negative, got %d", c.Prank.MaxMounts)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// BaseURL returns the configured public base URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/")
}

// SessionOptions turns the prank settings into store options.
func (c *Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithEngineOptions(
			engine.WithPadding(c.Prank.Padding),
			engine.WithDecoys(c.Prank.DecoysPerMove, c.Prank.MaxDecoys),
		),
		session.WithRepelRadius(c.Prank.RepelRadius),
		session.WithIdleTTL(c.Prank.IdleTTL),
		session.WithMaxMounts(c.Prank.MaxMounts),
	}
}

// NewLogger builds the zap logger. verbose forces debug level.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
