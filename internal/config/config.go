// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Sheets   SheetsConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Email    EmailConfig
	Logging  LoggingConfig
}

// SheetsConfig holds settings for the pre-registration sheet feed.
type SheetsConfig struct {
	// URL is the published CSV endpoint of the pre-registration sheet.
	URL string `env:"SHEETS_CSV_URL" default:"https://docs.google.com/spreadsheets/d/1ijOVIsCHmFG5D0MIUvHM33EhuRTxEEYKj4wsTQSdLeg"`

	// FetchTimeout bounds a single sheet fetch (default: 30s)
	FetchTimeout time.Duration `env:"SHEETS_FETCH_TIMEOUT" default:"30s"`

	// MinPayloadBytes is the smallest response accepted as a real sheet.
	// Anything shorter is treated as an error page (default: 50)
	MinPayloadBytes int `env:"SHEETS_MIN_PAYLOAD_BYTES" default:"50"`
}

// DatabaseConfig holds remote database settings. The URL is optional:
// when unset, registrations live only in the local store.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// StorageConfig holds local durable storage settings.
type StorageConfig struct {
	// Dir is the directory for the local key-value store (default: ./data)
	Dir string `env:"STORAGE_DIR" default:"./data"`
}

// EmailConfig holds confirmation email settings. Email is optional: when
// SMTPHost is unset, confirmations are skipped with a log line.
type EmailConfig struct {
	SMTPHost string `env:"EMAIL_SMTP_HOST"`
	SMTPPort int    `env:"EMAIL_SMTP_PORT" default:"587"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`

	// From is the sender address (default: the organizer mailbox)
	From string `env:"EMAIL_FROM" default:"walkathon@vvgc.org"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Configured reports whether a remote database is configured.
func (c *DatabaseConfig) Configured() bool {
	return c.URL != ""
}

// Configured reports whether an email service is configured.
func (c *EmailConfig) Configured() bool {
	return c.SMTPHost != ""
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Sheets.URL == "" {
		errs = append(errs, "SHEETS_CSV_URL must not be empty")
	}
	if c.Sheets.FetchTimeout <= 0 {
		errs = append(errs, "SHEETS_FETCH_TIMEOUT must be positive")
	}
	if c.Sheets.MinPayloadBytes <= 0 {
		errs = append(errs, "SHEETS_MIN_PAYLOAD_BYTES must be positive")
	}

	if c.Database.Configured() {
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	}

	if c.Storage.Dir == "" {
		errs = append(errs, "STORAGE_DIR must not be empty")
	}

	if c.Email.Configured() {
		if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
			errs = append(errs, fmt.Sprintf("EMAIL_SMTP_PORT (%d) must be 1-65535", c.Email.SMTPPort))
		}
		if c.Email.From == "" {
			errs = append(errs, "EMAIL_FROM must be set when email is configured")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and passwords are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Sheets: {URL: %q, MinPayloadBytes: %d}, ", c.Sheets.URL, c.Sheets.MinPayloadBytes))
	b.WriteString(fmt.Sprintf("Database: {Configured: %v, URL: [MASKED], MaxConns: %d}, ",
		c.Database.Configured(), c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Storage: {Dir: %q}, ", c.Storage.Dir))
	b.WriteString(fmt.Sprintf("Email: {Configured: %v, SMTPHost: %q, Password: [MASKED]}, ",
		c.Email.Configured(), c.Email.SMTPHost))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
