package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const DefaultEnvFile = "configs/.env"

// Config holds every runtime setting. Each field can be set by flag or by
// the environment variable named in its env tag.
type Config struct {
	DBHost     string `long:"dbhost" env:"DB_HOST" default:"localhost" description:"PostgreSQL host"`
	DBPort     string `long:"dbport" env:"DB_PORT" default:"5432" description:"PostgreSQL port"`
	DBUser     string `long:"dbuser" env:"DB_USER" default:"postgres" description:"PostgreSQL user"`
	DBPassword string `long:"dbpass" env:"DB_PASSWORD" description:"PostgreSQL password"`
	DBName     string `long:"dbname" env:"DB_NAME" default:"payroll" description:"PostgreSQL database"`
	DBSSLMode  string `long:"dbsslmode" env:"DB_SSLMODE" default:"disable" description:"PostgreSQL sslmode"`

	Port        string        `long:"port" env:"PORT" default:"8080" description:"HTTP listen port"`
	JWTSecret   string        `long:"jwtsecret" env:"JWT_SECRET" description:"HS256 signing secret for access tokens"`
	TokenTTL    time.Duration `long:"tokenttl" env:"TOKEN_TTL" default:"24h" description:"Access token lifetime"`
	GinMode     string        `long:"ginmode" env:"GIN_MODE" default:"debug" choice:"debug" choice:"release" choice:"test" description:"Gin mode"`
	CORSOrigins []string      `long:"corsorigin" env:"CORS_ORIGINS" env-delim:"," default:"http://localhost:5173" description:"Allowed CORS origins"`

	LogLevel string `long:"loglevel" env:"LOG_LEVEL" default:"info" description:"Logging level {trace, debug, info, warn, error, critical}, optionally per subsystem: info,SVC=debug"`
	LogFile  string `long:"logfile" env:"LOG_FILE" description:"Rotated log file; stdout only when empty"`

	AdminEmail    string `long:"adminemail" env:"ADMIN_EMAIL" description:"Manager account created at startup when no user has this email"`
	AdminPassword string `long:"adminpass" env:"ADMIN_PASSWORD" description:"Password for the startup Manager account"`

	SentryDSN        string `long:"sentrydsn" env:"SENTRY_DSN" description:"Sentry DSN; reporting is off when empty"`
	CalendarSchedule string `long:"calendarschedule" env:"CALENDAR_SCHEDULE" default:"0 5 0 1 * *" description:"Cron schedule (with seconds) for opening the next payroll months"`
}

// Load reads envFile when it exists and then parses args on top of the
// environment and defaults.
func Load(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AdminEmail != "" && len(c.AdminPassword) < 6 {
		return errors.New("ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %v", c.TokenTTL)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Release reports whether gin runs in release mode.
func (c *Config) Release() bool {
	return c.GinMode == "release"
}
