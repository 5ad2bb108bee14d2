package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the portal.
// Values come from the process environment (optionally seeded by a .env file).
type Config struct {
	Port          string        `mapstructure:"port"`
	BaseURL       string        `mapstructure:"base_url"`
	AllowedOrigin string        `mapstructure:"allowed_origin"`
	GinMode       string        `mapstructure:"gin_mode"`
	LogLevel      string        `mapstructure:"log_level"`
	DBDriver      string        `mapstructure:"db_driver"`
	DBDSN         string        `mapstructure:"db_dsn"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
}

// MinSecretLength is the shortest accepted HMAC signing secret.
const MinSecretLength = 32

var defaults = map[string]any{
	"port":           "8080",
	"base_url":       "http://localhost:8080",
	"allowed_origin": "http://localhost:3000",
	"gin_mode":       "release",
	"log_level":      "info",
	"db_driver":      "mysql",
	"db_dsn":         "",
	"jwt_secret":     "",
	"jwt_issuer":     "mvc-portal",
	"session_ttl":    "12h",
	"cookie_name":    "mvc_session",
	"cookie_secure":  false,
	"redis_addr":     "",
	"redis_password": "",
	"purge_schedule": "@every 1h",
}

// envNames maps config keys to the environment variables that feed them.
var envNames = map[string]string{
	"port":           "PORT",
	"base_url":       "BASE_URL",
	"allowed_origin": "ALLOWED_ORIGIN",
	"gin_mode":       "GIN_MODE",
	"log_level":      "LOG_LEVEL",
	"db_driver":      "DB_DRIVER",
	"db_dsn":         "DB_DSN_PRIMARY",
	"jwt_secret":     "JWT_SECRET",
	"jwt_issuer":     "JWT_ISSUER",
	"session_ttl":    "SESSION_TTL",
	"cookie_name":    "SESSION_COOKIE",
	"cookie_secure":  "SESSION_COOKIE_SECURE",
	"redis_addr":     "REDIS_ADDR",
	"redis_password": "REDIS_PASS",
	"purge_schedule": "RESET_PURGE_SCHEDULE",
}

// Load reads the .env file (if any) and the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the variables can be set by other means.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength))
	}
	switch strings.ToLower(c.DBDriver) {
	case "mysql":
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN_PRIMARY is required for the mysql driver"))
		}
	case "sqlite":
		if c.DBDSN == "" {
			c.DBDSN = "mvc.db"
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
