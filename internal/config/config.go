package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once at startup and passed explicitly to the components
// that need it. Nothing mutates it afterwards.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DB DBConfig

	// SecretKey signs and verifies bearer tokens.
	SecretKey   string   `env:"SECRET_KEY" envDefault:"your-secret-key-change-in-production"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	LogFile  string `env:"LOG_FILE" envDefault:"./logs/app.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ResetCron is a standard five-field cron spec for the automatic monthly
	// reset. Empty disables the job.
	ResetCron string `env:"RESET_CRON"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"commissions"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
}

// DSN renders the postgres data source name.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching .env.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("SECRET_KEY must not be empty")
	}
	return cfg, nil
}

// AllowAllOrigins reports whether CORS_ORIGINS is the wildcard.
func (c Config) AllowAllOrigins() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.CORSOrigins) == 0
}
