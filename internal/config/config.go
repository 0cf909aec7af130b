package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	"now-and-here/internal/recurrence"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string        `yaml:"telegram_token"`
	DatabaseURL    string        `yaml:"database_url"`
	ReportInterval time.Duration `yaml:"-"`
	// ReportAt schedules one summary a day at HH:MM instead of the interval.
	ReportAt  string `yaml:"report_at"`
	Timezone  string `yaml:"timezone"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// fileConfig mirrors Config for YAML, with the interval in whole hours.
type fileConfig struct {
	Config              `yaml:",inline"`
	ReportIntervalHours int `yaml:"report_interval_hours"`
}

// Load reads configuration from CONFIG_FILE (optional YAML) and environment
// variables, environment taking precedence.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an injectable environment lookup.
func LoadFrom(getenv func(string) string) (Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	var cfg Config
	if path := env("CONFIG_FILE"); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = fc.Config
		cfg.ReportInterval = time.Duration(fc.ReportIntervalHours) * time.Hour
	}

	override(&cfg.TelegramToken, env("TELEGRAM_TOKEN"))
	override(&cfg.DatabaseURL, env("DATABASE_URL"))
	override(&cfg.ReportAt, env("REPORT_AT"))
	override(&cfg.Timezone, env("TIMEZONE"))
	override(&cfg.LogLevel, env("LOG_LEVEL"))
	override(&cfg.LogFormat, env("LOG_FORMAT"))
	if d := parseInterval(env("REPORT_INTERVAL_HOURS")); d > 0 {
		cfg.ReportInterval = d
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "now_and_here.db"
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = 5 * time.Hour
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	if cfg.ReportAt != "" {
		if _, err := recurrence.ParseClock(cfg.ReportAt); err != nil {
			return cfg, fmt.Errorf("REPORT_AT: %w", err)
		}
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return cfg, fmt.Errorf("TIMEZONE: %w", err)
		}
	}
	if cfg.TelegramToken == "" {
		return cfg, errors.New("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

// Location resolves Timezone, falling back to the process zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fc, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fc, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
