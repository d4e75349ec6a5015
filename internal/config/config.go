// Package config assembles the API server configuration. Values come from
// built-in defaults, then an optional YAML file named by POLLS_CONFIG, then
// environment variables, and are validated once at startup.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mysite/internal/common/pagination"
	"mysite/internal/infra/db"
	"mysite/internal/usecase/question"
	envconfig "mysite/pkg/config"
)

// MinJWTSecretLength is the shortest accepted signing secret, in bytes.
const MinJWTSecretLength = 32

// Config is the complete API server configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Polls      PollsConfig      `yaml:"polls"`
	Vote       VoteConfig       `yaml:"vote"`
	Auth       AuthConfig       `yaml:"auth"`
	Pagination PaginationConfig `yaml:"pagination"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CSPReportOnly   bool          `yaml:"csp_report_only"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type PollsConfig struct {
	IndexLimit int `yaml:"index_limit"`
}

type VoteConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
	// TrustedProxies are IPs or CIDR ranges whose X-Forwarded-For is believed.
	// Empty means the client is always the TCP peer.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type AuthConfig struct {
	AdminUser     string        `yaml:"admin_user"`
	AdminPassword string        `yaml:"admin_password"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
}

type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

type TracingConfig struct {
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the built-in configuration. It has no JWT secret and
// therefore does not validate on its own.
func Default() Config {
	conn := db.DefaultConnectionConfig()
	page := pagination.DefaultConfig()
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Driver:          db.DriverSQLite,
			URL:             "file:mysite.db",
			MaxOpenConns:    conn.MaxOpenConns,
			MaxIdleConns:    conn.MaxIdleConns,
			ConnMaxLifetime: conn.ConnMaxLifetime,
			ConnMaxIdleTime: conn.ConnMaxIdleTime,
		},
		Polls:      PollsConfig{IndexLimit: question.DefaultIndexLimit},
		Vote:       VoteConfig{RatePerSecond: 1, Burst: 5},
		Auth:       AuthConfig{AdminUser: "admin", TokenTTL: time.Hour},
		Pagination: PaginationConfig{DefaultLimit: page.DefaultLimit, MaxLimit: page.MaxLimit},
		Tracing:    TracingConfig{ServiceName: "mysite", SampleRatio: 1},
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("POLLS_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// mergeFile overlays the YAML file at path; keys absent from the file keep
// their current values.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = envconfig.GetEnvString("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.RequestTimeout = envconfig.GetEnvPositiveDuration("HTTP_REQUEST_TIMEOUT", c.HTTP.RequestTimeout)
	c.HTTP.CSPReportOnly = envconfig.GetEnvBool("CSP_REPORT_ONLY", c.HTTP.CSPReportOnly)

	c.Database.Driver = envconfig.GetEnvString("DATABASE_DRIVER", c.Database.Driver)
	c.Database.URL = envconfig.GetEnvString("DATABASE_URL", c.Database.URL)
	c.Database.MaxOpenConns = envconfig.GetEnvPositiveInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = envconfig.GetEnvPositiveInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = envconfig.GetEnvPositiveDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = envconfig.GetEnvPositiveDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)

	c.Polls.IndexLimit = envconfig.GetEnvPositiveInt("POLLS_INDEX_LIMIT", c.Polls.IndexLimit)

	c.Vote.RatePerSecond = envconfig.GetEnvFloat("VOTE_RATE_PER_SECOND", c.Vote.RatePerSecond)
	c.Vote.Burst = envconfig.GetEnvPositiveInt("VOTE_RATE_BURST", c.Vote.Burst)
	c.Vote.TrustedProxies = envconfig.GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", c.Vote.TrustedProxies)

	c.Auth.AdminUser = envconfig.GetEnvString("ADMIN_USER", c.Auth.AdminUser)
	c.Auth.AdminPassword = envconfig.GetEnvString("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Auth.JWTSecret = envconfig.GetEnvString("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = envconfig.GetEnvPositiveDuration("JWT_TOKEN_TTL", c.Auth.TokenTTL)

	c.Pagination.DefaultLimit = envconfig.GetEnvPositiveInt("PAGINATION_DEFAULT_LIMIT", c.Pagination.DefaultLimit)
	c.Pagination.MaxLimit = envconfig.GetEnvPositiveInt("PAGINATION_MAX_LIMIT", c.Pagination.MaxLimit)

	c.Tracing.ServiceName = envconfig.GetEnvString("OTEL_SERVICE_NAME", c.Tracing.ServiceName)
	c.Tracing.SampleRatio = envconfig.GetEnvFloat("OTEL_TRACES_SAMPLE_RATIO", c.Tracing.SampleRatio)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database driver must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required"))
	}
	if c.Polls.IndexLimit <= 0 {
		errs = append(errs, errors.New("polls index_limit must be positive"))
	}
	if c.Vote.RatePerSecond <= 0 || c.Vote.Burst <= 0 {
		errs = append(errs, errors.New("vote rate_per_second and burst must be positive"))
	}
	for _, entry := range c.Vote.TrustedProxies {
		if !validProxyEntry(entry) {
			errs = append(errs, fmt.Errorf("vote trusted_proxies: invalid IP or CIDR %q", entry))
		}
	}
	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d characters", MinJWTSecretLength))
	}
	if c.Auth.AdminUser == "" {
		errs = append(errs, errors.New("admin user is required"))
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit <= 0 {
		errs = append(errs, errors.New("pagination limits must be positive"))
	} else if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		errs = append(errs, errors.New("pagination default_limit must not exceed max_limit"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing sample_ratio must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

func validProxyEntry(entry string) bool {
	entry = strings.TrimSpace(entry)
	if _, err := netip.ParsePrefix(entry); err == nil {
		return true
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

// ConnectionConfig returns the connection pool settings.
func (c *Config) ConnectionConfig() db.ConnectionConfig {
	return db.ConnectionConfig{
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
	}
}

// PaginationConfig returns the admin list pagination settings.
func (c *Config) PaginationConfig() pagination.Config {
	return pagination.Config{
		DefaultPage:  pagination.DefaultConfig().DefaultPage,
		DefaultLimit: c.Pagination.DefaultLimit,
		MaxLimit:     c.Pagination.MaxLimit,
	}
}
