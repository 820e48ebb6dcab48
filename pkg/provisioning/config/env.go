package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the environment representation of ServerConfig. Defaults
// mirror defaults().
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBSchema    string `env:"CONTENT_DB_SCHEMA" env-default:"content"`
	SeedTypes   bool   `env:"SEED_CONTENT_TYPES" env-default:"true"`

	ProbeBaseDir  string        `env:"PROBE_BASE_DIR"`
	ProbeTimeout  time.Duration `env:"PROBE_TIMEOUT" env-default:"2s"`
	EnableS3Probe bool          `env:"PROBE_S3_ENABLED" env-default:"false"`
	S3Region      string        `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Endpoint    string        `env:"AWS_S3_ENDPOINT"`
	S3AccessKeyID string        `env:"AWS_ACCESS_KEY_ID"`
	S3SecretKey   string        `env:"AWS_SECRET_ACCESS_KEY"`
	S3PathStyle   bool          `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	RedisURL      string        `env:"REDIS_URL"`
	ProbeCacheTTL time.Duration `env:"PROBE_CACHE_TTL" env-default:"5m"`

	SigningSecret string `env:"URL_SIGNING_SECRET"`

	APIKeySHA256 string `env:"API_KEY_SHA256"`
}

// WithEnv reads the configuration from environment variables.
//
// Database:
//
//	DATABASE_URL - empty or "memory" selects the in-memory store,
//	               "postgres://" or "postgresql://" selects Postgres
//	CONTENT_DB_SCHEMA - Postgres schema (default: "content")
//
// Probing:
//
//	PROBE_BASE_DIR, PROBE_TIMEOUT, PROBE_S3_ENABLED, AWS_S3_*,
//	REDIS_URL (enables the size cache), PROBE_CACHE_TTL
//
// Signing:
//
//	URL_SIGNING_SECRET (enables verifiable HMAC signatures)
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DBSchema = env.DBSchema
		c.SeedTypes = env.SeedTypes
		c.ProbeBaseDir = env.ProbeBaseDir
		c.ProbeTimeout = env.ProbeTimeout
		c.EnableS3Probe = env.EnableS3Probe
		c.S3Region = env.S3Region
		c.S3Endpoint = env.S3Endpoint
		c.S3AccessKeyID = env.S3AccessKeyID
		c.S3SecretKey = env.S3SecretKey
		c.S3PathStyle = env.S3PathStyle
		c.RedisURL = env.RedisURL
		c.ProbeCacheTTL = env.ProbeCacheTTL
		c.SigningSecret = env.SigningSecret
		c.APIKeySHA256 = env.APIKeySHA256

		return applyDatabaseURL(env.DatabaseURL, c)
	}
}

// applyDatabaseURL detects the database type from the URL scheme
func applyDatabaseURL(dbURL string, c *ServerConfig) error {
	switch {
	case dbURL == "" || dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
	return nil
}
