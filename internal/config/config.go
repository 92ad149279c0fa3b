package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/upload"
	pkgconfig "github.com/bally3399/chord001-monograms/pkg/config"
	"github.com/bally3399/chord001-monograms/pkg/database"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
	"github.com/bally3399/chord001-monograms/pkg/tracing"
)

const minJWTSecretLen = 32

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`
	// PublicURL is where this server is reachable; development uploads are served under it.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"15"`
	SlowQueryThresholdMs  int   `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis holds admin sessions.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Viewer identity
	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-only-secret-change-me-in-production"`
	JWTExpiryMins int    `env:"JWT_EXPIRY_MINUTES" envDefault:"1440"`

	// Admin gate. Either the plaintext password or its bcrypt hash.
	AdminPassword       string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash   string `env:"ADMIN_PASSWORD_HASH"`
	AdminSessionTTLMins int    `env:"ADMIN_SESSION_TTL_MINUTES" envDefault:"480"`
	AdminLoginPerMinute int    `env:"ADMIN_LOGIN_PER_MINUTE" envDefault:"5"`

	// Checkout handoff
	WhatsAppNumber string `env:"WHATSAPP_NUMBER" envDefault:"+2347034942471"`

	// Cloudinary is used for uploads when CLOUDINARY_CLOUD_NAME is set;
	// otherwise uploads are kept in memory.
	Cloudinary upload.CloudinaryConfig `envPrefix:"CLOUDINARY_"`

	CORS    middleware.CORSConfig `envPrefix:"CORS_"`
	Tracing tracing.Config        `envPrefix:"TRACING_"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if u, err := url.ParseRequestURI(c.PublicURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid PUBLIC_URL %q", c.PublicURL)
	}
	if c.PostgresHost == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if !c.IsDevelopment() && len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters outside development", minJWTSecretLen)
	}
	if c.JWTExpiryMins < 1 {
		return fmt.Errorf("invalid JWT_EXPIRY_MINUTES: %d", c.JWTExpiryMins)
	}

	switch {
	case c.AdminPassword == "" && c.AdminPasswordHash == "":
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	case c.AdminPassword != "" && c.AdminPasswordHash != "":
		return errors.New("set only one of ADMIN_PASSWORD and ADMIN_PASSWORD_HASH")
	case c.AdminPasswordHash != "":
		if _, err := bcrypt.Cost([]byte(c.AdminPasswordHash)); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
	}
	if c.AdminSessionTTLMins < 1 {
		return fmt.Errorf("invalid ADMIN_SESSION_TTL_MINUTES: %d", c.AdminSessionTTLMins)
	}
	if c.AdminLoginPerMinute < 1 {
		return fmt.Errorf("invalid ADMIN_LOGIN_PER_MINUTE: %d", c.AdminLoginPerMinute)
	}

	if _, err := checkout.NewHandoff(c.WhatsAppNumber); err != nil {
		return fmt.Errorf("WHATSAPP_NUMBER: %w", err)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Postgres returns the connection pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the Redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

// JWTExpiry is the lifetime of viewer access tokens.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMins) * time.Minute
}

// AdminSessionTTL is the lifetime of an admin session token.
func (c *Config) AdminSessionTTL() time.Duration {
	return time.Duration(c.AdminSessionTTLMins) * time.Minute
}

// UsesCloudinary reports whether uploads go to Cloudinary.
func (c *Config) UsesCloudinary() bool {
	return c.Cloudinary.CloudName != ""
}
