package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	HandlerTimeout        time.Duration `env:"HANDLER_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBodyBytes   int64         `env:"MAX_REQUEST_BODY_BYTES,default=1048576"`

	// database settings
	DatabaseURL         string        `env:"DATABASE_URL,required=true"`
	DatabaseName        string        `env:"DATABASE_NAME,default=blog"`
	AutoMigrate         bool          `env:"AUTO_MIGRATE,default=true"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

const defaultServiceURL = "http://localhost:8080"

// HarnessEnvironment is the configuration for the test harness (blogctl and the integration tests).
//
// The harness talks to the store directly, so it must be pointed at a test database.
// TEST_DATABASE_URL is required (from the environment or HarnessOverrides) and is rejected
// if it names the same database as DATABASE_URL.
type HarnessEnvironment struct {
	Environment     string        `env:"ENVIRONMENT,default=test"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	ServiceURL      string        `env:"SERVICE_URL,default=http://localhost:8080"`
	TestDatabaseURL string        `env:"TEST_DATABASE_URL"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	DatabaseName    string        `env:"DATABASE_NAME,default=blog"`
	SeedCount       int           `env:"SEED_COUNT,default=10"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil

}

// HarnessOverrides are command line values. Non-empty fields replace the environment value.
type HarnessOverrides struct {
	TestDatabaseURL string
	ServiceURL      string
}

// NewHarnessConfig loads the test harness settings from the environment, applies the
// overrides and validates the result. The process environment is not modified.
func NewHarnessConfig(overrides HarnessOverrides) (*HarnessEnvironment, error) {
	var cfg HarnessEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if overrides.TestDatabaseURL != "" {
		cfg.TestDatabaseURL = overrides.TestDatabaseURL
	}
	if overrides.ServiceURL != "" {
		cfg.ServiceURL = overrides.ServiceURL
	}
	// go-env only applies defaults to unset variables
	if strings.TrimSpace(cfg.ServiceURL) == "" {
		cfg.ServiceURL = defaultServiceURL
	}

	if err := validateHarnessConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if !logger.ValidLogLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %s", cfg.LogLevel)
	}
	if cfg.MaxRequestBodyBytes < 1 {
		return fmt.Errorf("MAX_REQUEST_BODY_BYTES must be at least 1")
	}

	if err := validateDatabaseURL("DATABASE_URL", cfg.DatabaseURL); err != nil {
		return err
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	return nil
}

func validateHarnessConfig(cfg *HarnessEnvironment) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.Environment == "prod" {
		return fmt.Errorf("the test harness truncates the store and must not run with ENVIRONMENT=prod")
	}
	if !logger.ValidLogLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %s", cfg.LogLevel)
	}
	if err := validateDatabaseURL("TEST_DATABASE_URL", cfg.TestDatabaseURL); err != nil {
		return err
	}
	if cfg.DatabaseURL != "" && sameDatabase(cfg.DatabaseURL, cfg.TestDatabaseURL, cfg.DatabaseName) {
		return fmt.Errorf("TEST_DATABASE_URL must not be the same as DATABASE_URL")
	}
	if cfg.SeedCount < 1 {
		return fmt.Errorf("SEED_COUNT must be at least 1, got %d", cfg.SeedCount)
	}
	if _, err := url.ParseRequestURI(cfg.ServiceURL); err != nil {
		return fmt.Errorf("invalid SERVICE_URL: %w", err)
	}
	return nil
}

func validateDatabaseURL(name, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "mongodb", "mongodb+srv", "sqlite", "file":
		return nil
	default:
		return fmt.Errorf("%s has unsupported scheme %q (use postgres, mongodb or sqlite)", name, u.Scheme)
	}
}

// sameDatabase compares two connection strings ignoring query parameters (sslmode etc).
// mongodb URLs without a database path refer to databaseName, as they do when the store opens them.
func sameDatabase(a, b, databaseName string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	if ua.Scheme != ub.Scheme || !strings.EqualFold(ua.Host, ub.Host) || ua.Opaque != ub.Opaque {
		return false
	}

	switch ua.Scheme {
	case "mongodb", "mongodb+srv":
		nameA, errA := store.MongoDatabaseName(a, databaseName)
		nameB, errB := store.MongoDatabaseName(b, databaseName)
		return errA == nil && errB == nil && nameA == nameB
	default:
		return strings.TrimSuffix(ua.Path, "/") == strings.TrimSuffix(ub.Path, "/")
	}
}

// RedactURL returns the connection string with any password replaced, for logging
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
