// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache / event stream (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Credential email provider (Brevo)
	BrevoAPIKey string `env:"BREVO_API_KEY"`
	BrevoAPIURL string `env:"BREVO_API_URL" envDefault:"https://api.brevo.com/v3/smtp/email"`

	// Booking confirmation provider (Resend)
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendAPIURL string `env:"RESEND_API_URL" envDefault:"https://api.resend.com/emails"`

	// Sender identity and portal link embedded in outgoing email
	SenderName  string `env:"EMAIL_SENDER_NAME" envDefault:"MedYatra Team"`
	SenderEmail string `env:"EMAIL_SENDER_ADDRESS" envDefault:"support@medyatra.space"`
	LoginURL    string `env:"EMAIL_LOGIN_URL" envDefault:"https://medyatra.space/login"`

	// Whether booking confirmations may include a placeholder credential
	// block when the patient has no real account. Off by default; the
	// confirmation simply omits credentials instead.
	IncludePlaceholderCredentials bool `env:"EMAIL_INCLUDE_PLACEHOLDER_CREDENTIALS" envDefault:"false"`

	// Credential issuance
	PasswordLength   int `env:"PASSWORD_LENGTH" envDefault:"12"`
	BatchConcurrency int `env:"BATCH_CONCURRENCY" envDefault:"8"`

	// Daily issuance schedule
	ScheduleEnabled  bool   `env:"SCHEDULE_ENABLED" envDefault:"true"`
	ScheduleTimezone string `env:"SCHEDULE_TIMEZONE" envDefault:"Asia/Kolkata"`

	// Argon2id PHC hash of the admin API key guarding the batch trigger
	// and test-email endpoints. Generated with scripts/hash-admin-key.go.
	AdminAPIKeyHash string `env:"ADMIN_API_KEY_HASH"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
