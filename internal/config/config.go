// Package config provides configuration for the assistant service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend modes for the domain collaborators.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds the assistant configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Domain collaborators
	BackendMode   string `yaml:"backend_mode"`
	BackendURL    string `yaml:"backend_url"`
	BackendAPIKey string `yaml:"backend_api_key"`

	// LLM settings
	LiteLLMURL    string `yaml:"litellm_url"`
	LiteLLMAPIKey string `yaml:"litellm_api_key"`
	LLMModel      string `yaml:"llm_model"`

	// Timeouts
	LLMTimeout      time.Duration `yaml:"-"`
	ActionTimeout   time.Duration `yaml:"-"`
	NavigationDelay time.Duration `yaml:"-"`

	// Conversation
	HistoryWindow int `yaml:"history_window"`

	// WebSocket settings
	PingInterval time.Duration `yaml:"-"`
	WriteTimeout time.Duration `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// fileConfig mirrors Config for YAML files; durations are given in milliseconds.
type fileConfig struct {
	Config            `yaml:",inline"`
	LLMTimeoutMs      int `yaml:"llm_timeout_ms"`
	ActionTimeoutMs   int `yaml:"action_timeout_ms"`
	NavigationDelayMs int `yaml:"navigation_delay_ms"`
	PingIntervalMs    int `yaml:"ws_ping_interval_ms"`
	WriteTimeoutMs    int `yaml:"ws_write_timeout_ms"`
}

// Load loads configuration from environment variables. When CONFIG_FILE is
// set, values from that YAML file override the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:     getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		BackendMode:     getEnv("BACKEND_MODE", BackendLocal),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:3000"),
		BackendAPIKey:   getEnv("BACKEND_API_KEY", ""),
		LiteLLMURL:      getEnv("LITELLM_URL", "http://localhost:4000"),
		LiteLLMAPIKey:   getEnv("LITELLM_API_KEY", ""),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_MS", 20000)) * time.Millisecond,
		ActionTimeout:   time.Duration(getEnvInt("ACTION_TIMEOUT_MS", 10000)) * time.Millisecond,
		NavigationDelay: time.Duration(getEnvInt("NAVIGATION_DELAY_MS", 1500)) * time.Millisecond,
		HistoryWindow:   getEnvInt("HISTORY_WINDOW", 10),
		PingInterval:    time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:    time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyYAML overlays non-zero values from a YAML document.
func (c *Config) applyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	overlayString(&c.DatabaseURL, fc.DatabaseURL)
	overlayString(&c.BackendMode, fc.BackendMode)
	overlayString(&c.BackendURL, fc.BackendURL)
	overlayString(&c.BackendAPIKey, fc.BackendAPIKey)
	overlayString(&c.LiteLLMURL, fc.LiteLLMURL)
	overlayString(&c.LiteLLMAPIKey, fc.LiteLLMAPIKey)
	overlayString(&c.LLMModel, fc.LLMModel)
	overlayString(&c.LogLevel, fc.LogLevel)
	if fc.HTTPPort > 0 {
		c.HTTPPort = fc.HTTPPort
	}
	if fc.HistoryWindow > 0 {
		c.HistoryWindow = fc.HistoryWindow
	}
	overlayMillis(&c.LLMTimeout, fc.LLMTimeoutMs)
	overlayMillis(&c.ActionTimeout, fc.ActionTimeoutMs)
	overlayMillis(&c.NavigationDelay, fc.NavigationDelayMs)
	overlayMillis(&c.PingInterval, fc.PingIntervalMs)
	overlayMillis(&c.WriteTimeout, fc.WriteTimeoutMs)
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.BackendMode {
	case BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("invalid BACKEND_MODE %q (want %s or %s)", c.BackendMode, BackendLocal, BackendRemote)
	}
	if c.LLMTimeout <= 0 || c.ActionTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("HISTORY_WINDOW must be positive")
	}
	return nil
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayMillis(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
