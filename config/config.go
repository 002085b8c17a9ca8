// Package config loads and validates the gateway configuration from
// environment variables.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogRetentionWeeks int
	MaxLogFileSize    int64
	MaxRequestBody    int64
	MaxHeaderSize     int64

	UpstreamURL     string
	UpstreamTimeout time.Duration

	CacheTTL      time.Duration
	RedisAddr     string // empty selects the in-memory store
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               strings.ToLower(getEnvWithDefault("ENV", "dev")),
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB

		UpstreamURL:     os.Getenv("UPSTREAM_URL"),
		UpstreamTimeout: time.Duration(getIntEnvWithDefault("UPSTREAM_TIMEOUT_MS", 10000)) * time.Millisecond,

		CacheTTL:      time.Duration(getIntEnvWithDefault("CACHE_TTL_SECONDS", 300)) * time.Second,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntEnvWithDefault("REDIS_DB", 0),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	if err := validateOneOf(cfg.Env, "ENV", []string{"dev", "staging", "prod", "test"}); err != nil {
		return err
	}
	if err := validateOneOf(cfg.LogLevel, "LOG_LEVEL", []string{"debug", "info", "warn", "error"}); err != nil {
		return err
	}
	if err := validateUpstreamURL(cfg.UpstreamURL); err != nil {
		return fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}
	if cfg.UpstreamTimeout < 100*time.Millisecond || cfg.UpstreamTimeout > 2*time.Minute {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT_MS: must be between 100ms and 2m, got %s", cfg.UpstreamTimeout)
	}
	if cfg.CacheTTL < time.Second || cfg.CacheTTL > 24*time.Hour {
		return fmt.Errorf("invalid CACHE_TTL_SECONDS: must be between 1s and 24h, got %s", cfg.CacheTTL)
	}
	if cfg.LogRetentionWeeks <= 0 || cfg.LogRetentionWeeks > 52 {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: must be between 1 and 52, got %d", cfg.LogRetentionWeeks)
	}
	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return err
	}
	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return err
	}
	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if portNum < 1024 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1024 and 65535, got %d", portNum)
	}
	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}
	if address == "localhost" {
		return nil
	}
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}
	return nil
}

func validateUpstreamURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("UPSTREAM_URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("UPSTREAM_URL must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("UPSTREAM_URL must use http or https, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("UPSTREAM_URL must include a host")
	}
	return nil
}

func validateOneOf(value, name string, valid []string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: must be one of %v, got: %s", name, valid, value)
}

func validateSizeLimit(size int64, name string) error {
	if size <= 0 {
		return fmt.Errorf("invalid %s: must be positive, got %d", name, size)
	}
	if size > 100*1024*1024 {
		return fmt.Errorf("invalid %s: too large (max 100MB), got %d bytes", name, size)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
