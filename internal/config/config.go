package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	constants "github.com/Alarion239/studentrecords/internal/constants"
)

// Config is the process-wide configuration, read from the environment.
type Config struct {
	Port string `env:"PORT,default=8000"`

	DatabaseDriver string `env:"DATABASE_DRIVER,default=postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH,default=records.db"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=1h"`
	BcryptCost int           `env:"BCRYPT_COST,default=10"`

	// Comma separated.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE,default=120"`

	LogFormat string `env:"LOG_FORMAT,default=json"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

// Load reads envFile (if it exists) into the environment without overriding
// variables that are already set, then decodes the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case constants.DRIVER_POSTGRES:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s environment variable is not set", constants.DATABASE_URL)
		}
	case constants.DRIVER_SQLITE:
		if c.SQLitePath == "" {
			return fmt.Errorf("%s environment variable is not set", constants.SQLITE_PATH)
		}
	case constants.DRIVER_MEMORY:
	default:
		return fmt.Errorf("unknown %s %q", constants.DATABASE_DRIVER, c.DatabaseDriver)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%s must be positive", constants.TOKEN_TTL)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("%s must not be negative", constants.RATE_LIMIT_PER_MINUTE)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
