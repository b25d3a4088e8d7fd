package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cesargomez89/hummingbird/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port                string
	DBPath              string
	LibraryView         string
	LogLevel            string
	LogFormat           string
	LogFile             string
	SampleRate          int
	BufferMs            int
	StartBufferMs       int
	PrefetchLookaheadMs int
	PositionIntervalMs  int
	PrevRestartAfterMs  int
	WatchLibrary        bool
}

// fileConfig mirrors Config for the optional YAML file. Pointer fields so
// absent keys leave the defaults alone.
type fileConfig struct {
	Port                *string `yaml:"port"`
	DBPath              *string `yaml:"db_path"`
	LibraryView         *string `yaml:"library_view"`
	LogLevel            *string `yaml:"log_level"`
	LogFormat           *string `yaml:"log_format"`
	LogFile             *string `yaml:"log_file"`
	SampleRate          *int    `yaml:"sample_rate"`
	BufferMs            *int    `yaml:"buffer_ms"`
	StartBufferMs       *int    `yaml:"start_buffer_ms"`
	PrefetchLookaheadMs *int    `yaml:"prefetch_lookahead_ms"`
	PositionIntervalMs  *int    `yaml:"position_interval_ms"`
	PrevRestartAfterMs  *int    `yaml:"prev_restart_after_ms"`
	WatchLibrary        *bool   `yaml:"watch_library"`
}

// Load builds the configuration from defaults, then the optional YAML file,
// then environment variables, in that order of precedence (env wins).
func Load() (*Config, error) {
	// A .env file feeds the environment but never overrides variables
	// that are already set.
	_ = godotenv.Load()

	c := &Config{
		Port:                constants.DefaultPort,
		DBPath:              constants.DefaultDBPath,
		LibraryView:         "artist",
		LogLevel:            "info",
		LogFormat:           "text",
		SampleRate:          constants.DefaultSampleRate,
		BufferMs:            int(constants.DefaultBufferDur / time.Millisecond),
		StartBufferMs:       int(constants.DefaultStartBufferDur / time.Millisecond),
		PrefetchLookaheadMs: int(constants.DefaultPrefetchDur / time.Millisecond),
		PositionIntervalMs:  int(constants.DefaultPositionInterval / time.Millisecond),
		PrevRestartAfterMs:  int(constants.DefaultPrevRestartAfter / time.Millisecond),
		WatchLibrary:        true,
	}

	if err := c.applyFile(); err != nil {
		return nil, err
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyFile() error {
	path := os.Getenv("HUMMINGBIRD_CONFIG")
	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyString(&c.Port, fc.Port)
	applyString(&c.DBPath, fc.DBPath)
	applyString(&c.LibraryView, fc.LibraryView)
	applyString(&c.LogLevel, fc.LogLevel)
	applyString(&c.LogFormat, fc.LogFormat)
	applyString(&c.LogFile, fc.LogFile)
	applyInt(&c.SampleRate, fc.SampleRate)
	applyInt(&c.BufferMs, fc.BufferMs)
	applyInt(&c.StartBufferMs, fc.StartBufferMs)
	applyInt(&c.PrefetchLookaheadMs, fc.PrefetchLookaheadMs)
	applyInt(&c.PositionIntervalMs, fc.PositionIntervalMs)
	applyInt(&c.PrevRestartAfterMs, fc.PrevRestartAfterMs)
	if fc.WatchLibrary != nil {
		c.WatchLibrary = *fc.WatchLibrary
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.LibraryView = getEnv("LIBRARY_VIEW", c.LibraryView)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.SampleRate = getEnvInt("SAMPLE_RATE", c.SampleRate)
	c.BufferMs = getEnvInt("BUFFER_MS", c.BufferMs)
	c.StartBufferMs = getEnvInt("START_BUFFER_MS", c.StartBufferMs)
	c.PrefetchLookaheadMs = getEnvInt("PREFETCH_LOOKAHEAD_MS", c.PrefetchLookaheadMs)
	c.PositionIntervalMs = getEnvInt("POSITION_INTERVAL_MS", c.PositionIntervalMs)
	c.PrevRestartAfterMs = getEnvInt("PREV_RESTART_AFTER_MS", c.PrevRestartAfterMs)
	c.WatchLibrary = getEnvBool("WATCH_LIBRARY", c.WatchLibrary)
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate LibraryView
	if c.LibraryView != "artist" && c.LibraryView != "album" {
		errors = append(errors, fmt.Sprintf("LIBRARY_VIEW must be one of: artist, album, got: %s", c.LibraryView))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	// Validate SampleRate
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		errors = append(errors, fmt.Sprintf("SAMPLE_RATE must be between 8000 and 192000, got: %d", c.SampleRate))
	}

	// Validate buffer sizing
	if c.BufferMs <= 0 {
		errors = append(errors, fmt.Sprintf("BUFFER_MS must be positive, got: %d", c.BufferMs))
	}
	if c.StartBufferMs <= 0 {
		errors = append(errors, fmt.Sprintf("START_BUFFER_MS must be positive, got: %d", c.StartBufferMs))
	} else if c.BufferMs > 0 && c.StartBufferMs > c.BufferMs {
		errors = append(errors, fmt.Sprintf("START_BUFFER_MS must not exceed BUFFER_MS, got: %d > %d", c.StartBufferMs, c.BufferMs))
	}
	if c.PrefetchLookaheadMs < 0 {
		errors = append(errors, fmt.Sprintf("PREFETCH_LOOKAHEAD_MS must not be negative, got: %d", c.PrefetchLookaheadMs))
	}
	if c.PositionIntervalMs <= 0 {
		errors = append(errors, fmt.Sprintf("POSITION_INTERVAL_MS must be positive, got: %d", c.PositionIntervalMs))
	}
	if c.PrevRestartAfterMs < 0 {
		errors = append(errors, fmt.Sprintf("PREV_RESTART_AFTER_MS must not be negative, got: %d", c.PrevRestartAfterMs))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Duration accessors for the millisecond-valued settings.

func (c *Config) BufferDur() time.Duration { return time.Duration(c.BufferMs) * time.Millisecond }

func (c *Config) StartBufferDur() time.Duration {
	return time.Duration(c.StartBufferMs) * time.Millisecond
}

func (c *Config) PrefetchLookahead() time.Duration {
	return time.Duration(c.PrefetchLookaheadMs) * time.Millisecond
}

func (c *Config) PositionInterval() time.Duration {
	return time.Duration(c.PositionIntervalMs) * time.Millisecond
}

// PrevRestartAfter returns the playing time after which "previous" restarts
// the current track instead of stepping back. Zero disables the restart.
func (c *Config) PrevRestartAfter() time.Duration {
	return time.Duration(c.PrevRestartAfterMs) * time.Millisecond
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback default
func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
