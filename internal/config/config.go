// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Profile store backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

// DefaultBotPassword is used when BOT_PASSWORD is unset. The unlock phrase
// is not a security boundary.
const DefaultBotPassword = "1234"

// Config holds all service configuration
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	BotPassword string `envconfig:"BOT_PASSWORD" default:"1234"`

	ProfileBackend string `envconfig:"PROFILE_BACKEND" default:"file"`
	UseMemoryStore bool   `envconfig:"USE_MEMORY_STORE" default:"false"`
	ProfilesFile   string `envconfig:"PROFILES_FILE" default:"profiles.json"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	SessionBackend       string        `envconfig:"SESSION_BACKEND" default:"memory"`
	SessionIdleTimeout   time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
	RedisAddr            string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword        string        `envconfig:"REDIS_PASSWORD"`
	RedisDB              int           `envconfig:"REDIS_DB" default:"0"`

	TwilioAccountSID         string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken          string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom       string `envconfig:"TWILIO_WHATSAPP_FROM"`
	DisableWebhookValidation bool   `envconfig:"DISABLE_WEBHOOK_VALIDATION" default:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read configuration from environment: %w", err)
	}

	if cfg.UseMemoryStore {
		cfg.ProfileBackend = BackendMemory
	}
	if cfg.BotPassword == "" {
		cfg.BotPassword = DefaultBotPassword
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the chosen backends have what they need
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	switch c.ProfileBackend {
	case BackendFile:
		if c.ProfilesFile == "" {
			return fmt.Errorf("PROFILES_FILE cannot be empty for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown PROFILE_BACKEND %q", c.ProfileBackend)
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.SessionIdleTimeout < 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT cannot be negative")
	}
	if c.ValidateWebhook() && c.TwilioAuthToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN is required unless DISABLE_WEBHOOK_VALIDATION is set")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ValidateWebhook reports whether Twilio webhook signatures are checked
func (c *Config) ValidateWebhook() bool {
	return !c.IsDevelopment() && !c.DisableWebhookValidation
}

// TwilioConfigured reports whether outbound WhatsApp messages can be sent
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}
