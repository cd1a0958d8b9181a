package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Registry sources
const (
	RegistryManifest = "manifest"
	RegistryPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	DBConn         string `env:"DB_CONN" envDefault:"host=localhost port=5436 user=test password=test dbname=debt sslmode=disable"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"secret"`
	RegistrySource string `env:"REGISTRY_SOURCE" envDefault:"manifest"`
	ManifestPath   string `env:"MANIFEST_PATH" envDefault:"deploy/manifest.xml"`

	ReminderSchedule string        `env:"REMINDER_SCHEDULE" envDefault:"@hourly"`
	ReminderWindow   time.Duration `env:"REMINDER_WINDOW" envDefault:"24h"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL" envDefault:"noreply@debt-terms.local"`
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	// Contract addresses come from the manifest for every registry source
	if strings.TrimSpace(cfg.ManifestPath) == "" {
		return nil, fmt.Errorf("MANIFEST_PATH is required")
	}
	switch cfg.RegistrySource {
	case RegistryManifest, RegistryPostgres:
	default:
		return nil, fmt.Errorf("REGISTRY_SOURCE must be %q or %q, got %q", RegistryManifest, RegistryPostgres, cfg.RegistrySource)
	}
	if cfg.ReminderWindow <= 0 {
		return nil, fmt.Errorf("REMINDER_WINDOW must be positive")
	}

	return cfg, nil
}
