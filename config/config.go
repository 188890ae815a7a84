package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendHTTP     = "http"
	BackendFirebase = "firebase"
)

// Submission selects and configures where finished questionnaires are sent.
type Submission struct {
	Backend string `env:"ELIGIBILITY_SUBMIT_BACKEND" envDefault:"http"`
	URL     string `env:"ELIGIBILITY_SUBMIT_URL"     envDefault:"https://jsonplaceholder.typicode.com/posts"`

	FirebaseServiceAccountKeyPath string `env:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseDatabaseURL           string `env:"FIREBASE_DATABASE_URL"`
	FirebaseCollection            string `env:"ELIGIBILITY_FIREBASE_COLLECTION" envDefault:"submissions"`
}

// Log controls zerolog output.
type Log struct {
	Level  string `env:"ELIGIBILITY_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"ELIGIBILITY_LOG_FORMAT" envDefault:"json"`
	File   string `env:"ELIGIBILITY_LOG_FILE"`
}

// Config is read once at startup from the environment.
type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	MetricsAddr      string `env:"ELIGIBILITY_METRICS_ADDR" envDefault:":9090"`
	ContentPath      string `env:"ELIGIBILITY_CONTENT_PATH"`

	// Bot conversations untouched for this long are forgotten.
	SessionIdleTimeout time.Duration `env:"ELIGIBILITY_SESSION_IDLE_TIMEOUT" envDefault:"24h"`

	Submission Submission
	Log        Log
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	switch c.Submission.Backend {
	case BackendHTTP:
		if c.Submission.URL == "" {
			return errors.New("ELIGIBILITY_SUBMIT_URL must be set for the http backend")
		}
	case BackendFirebase:
		if c.Submission.FirebaseServiceAccountKeyPath == "" {
			return errors.New("FIREBASE_SERVICE_ACCOUNT_KEY_PATH environment variable not set")
		}
		if c.Submission.FirebaseDatabaseURL == "" {
			return errors.New("FIREBASE_DATABASE_URL environment variable not set")
		}
	default:
		return fmt.Errorf("unknown submission backend %q", c.Submission.Backend)
	}
	if c.SessionIdleTimeout <= 0 {
		return errors.New("ELIGIBILITY_SESSION_IDLE_TIMEOUT must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// RequireBot reports an error when the bot token is missing.
func (c Config) RequireBot() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	return nil
}
