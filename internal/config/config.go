package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LoginModeLocal   = "local"
	LoginModeBackend = "backend"

	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"3000"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Gateway backend
	GatewayURL       string        `env:"GATEWAY_URL" envDefault:"http://localhost:8000/api/v1"`
	GatewayAPIKey    string        `env:"GATEWAY_API_KEY"`
	GatewayHealthURL string        `env:"GATEWAY_HEALTH_URL"`
	GatewayTimeout   time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"0s"`
	HealthInterval   time.Duration `env:"HEALTH_INTERVAL" envDefault:"30s"`

	// Login
	LoginMode     string `env:"LOGIN_MODE" envDefault:"local"`
	LocalUsername string `env:"LOCAL_USERNAME" envDefault:"admin"`
	LocalPassword string `env:"LOCAL_PASSWORD" envDefault:"admin"`

	// Sessions
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"wpconn_session"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`

	DBPath     string `env:"DB_PATH" envDefault:"./dashboard.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"wpconn_dashboard"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisTLS      bool   `env:"REDIS_TLS" envDefault:"false"`

	// Views
	PageSize        int    `env:"PAGE_SIZE" envDefault:"50"`
	DisplayTimezone string `env:"DISPLAY_TZ" envDefault:"Local"`
	DefaultClientID string `env:"DEFAULT_CLIENT_ID"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"wpconn_dashboard"`
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.LoginMode {
	case LoginModeLocal, LoginModeBackend:
	default:
		errs = append(errs, fmt.Errorf("LOGIN_MODE must be %q or %q, got %q", LoginModeLocal, LoginModeBackend, c.LoginMode))
	}

	switch c.SessionStore {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.HealthInterval <= 0 {
		errs = append(errs, errors.New("HEALTH_INTERVAL must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if !strings.HasPrefix(c.GatewayURL, "http://") && !strings.HasPrefix(c.GatewayURL, "https://") {
		errs = append(errs, fmt.Errorf("GATEWAY_URL must be an http(s) URL, got %q", c.GatewayURL))
	}

	if c.IsProduction() {
		if c.GatewayAPIKey == "" {
			errs = append(errs, errors.New("GATEWAY_API_KEY is required in production"))
		}
		if c.LoginMode == LoginModeLocal && c.LocalUsername == "admin" && c.LocalPassword == "admin" {
			errs = append(errs, errors.New("default local credentials are not allowed in production"))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Location resolves the zone timestamps are displayed in.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || c.DisplayTimezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("load DISPLAY_TZ %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

// PostgresDSN follows the key=value form accepted by gorm's postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
