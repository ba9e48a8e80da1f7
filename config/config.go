package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Auth modes.
const (
	AuthModeFirebase = "firebase"
	AuthModeDemo     = "demo"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `env:"GO_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`

	MongoURI            string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGODB_DATABASE" envDefault:"marathonhub"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"5s"`

	AuthMode          string `env:"AUTH_MODE" envDefault:"firebase"`
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCertsURL  string `env:"FIREBASE_CERTS_URL"`
	DemoSubject       string `env:"DEMO_SUBJECT" envDefault:"demo-user"`
	DemoEmail         string `env:"DEMO_EMAIL" envDefault:"demo@marathonhub.local"`

	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	Email EmailConfig
}

// EmailConfig configures outgoing notifications.
type EmailConfig struct {
	Provider              string `env:"EMAIL_PROVIDER" envDefault:"noop"`
	FromAddress           string `env:"EMAIL_FROM_ADDRESS" envDefault:"no-reply@marathonhub.local"`
	FromName              string `env:"EMAIL_FROM_NAME" envDefault:"MarathonHub"`
	SESRegion             string `env:"AWS_SES_REGION"`
	SESAccessKeyID        string `env:"AWS_ACCESS_KEY_ID"`
	SESSecretAccessKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	SESInsecureSkipVerify bool   `env:"AWS_SES_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations that env tags cannot express.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeFirebase:
		if c.FirebaseProjectID == "" {
			return errors.New("AUTH_MODE=firebase requires FIREBASE_PROJECT_ID")
		}
	case AuthModeDemo:
		if c.FirebaseProjectID != "" {
			return errors.New("AUTH_MODE=demo cannot be combined with FIREBASE_PROJECT_ID")
		}
		if c.DemoSubject == "" {
			return errors.New("AUTH_MODE=demo requires DEMO_SUBJECT")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q (want %q or %q)", c.AuthMode, AuthModeFirebase, AuthModeDemo)
	}
	if c.MongoConnectTimeout <= 0 {
		return errors.New("MONGODB_CONNECT_TIMEOUT must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
