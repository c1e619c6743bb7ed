package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Audit         AuditConfig         `mapstructure:"audit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// SecurityConfig carries everything the token codec and password hasher
// need. Expiration values are duration expressions ("1h", "30m", "7d");
// unparseable values fall back to one hour instead of failing startup.
type SecurityConfig struct {
	AccessTokenSecret      string `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret     string `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenExpiration  string `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration string `mapstructure:"refresh_token_expiration"`
	BCryptCost             int    `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
}

// AuditConfig holds the lookback windows for access-attempt queries.
// The cutoffs are configurable because operational needs differ per
// deployment; the defaults mirror what we run in production.
type AuditConfig struct {
	RecentWindow        time.Duration `mapstructure:"recent_window"`
	SuspiciousWindow    time.Duration `mapstructure:"suspicious_window"`
	SuspiciousThreshold int           `mapstructure:"suspicious_threshold"`
	RetentionDays       int           `mapstructure:"retention_days"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- DEFAULTS -----------------

const (
	DefaultAccessTokenExpiration  = "1h"
	DefaultRefreshTokenExpiration = "7d"
	DefaultBCryptCost             = 12

	DefaultAuditRecentWindow     = 15 * time.Minute
	DefaultAuditSuspiciousWindow = 24 * time.Hour
	DefaultSuspiciousThreshold   = 3
	DefaultAuditRetentionDays    = 90
)

func (c *AuditConfig) ApplyDefaults() {
	if c.RecentWindow <= 0 {
		c.RecentWindow = DefaultAuditRecentWindow
	}
	if c.SuspiciousWindow <= 0 {
		c.SuspiciousWindow = DefaultAuditSuspiciousWindow
	}
	if c.SuspiciousThreshold <= 0 {
		c.SuspiciousThreshold = DefaultSuspiciousThreshold
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultAuditRetentionDays
	}
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the config from environment variables for
// containerized deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AccessTokenSecret:      getEnv("JWT_SECRET", ""),
			RefreshTokenSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiration:  getEnv("JWT_EXPIRATION", DefaultAccessTokenExpiration),
			RefreshTokenExpiration: getEnv("JWT_REFRESH_EXPIRATION", DefaultRefreshTokenExpiration),
			BCryptCost:             getEnvAsInt("BCRYPT_ROUNDS", DefaultBCryptCost),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.Audit.ApplyDefaults()
	return cfg
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access token secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh token secret must be at least 32 characters")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}
