package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/content-provisioning/pkg/provisioning"
	"github.com/tendant/content-provisioning/pkg/provisioning/presigned"
	"github.com/tendant/content-provisioning/pkg/provisioning/prober/cache"
	fsprober "github.com/tendant/content-provisioning/pkg/provisioning/prober/fs"
	s3prober "github.com/tendant/content-provisioning/pkg/provisioning/prober/s3"
	"github.com/tendant/content-provisioning/pkg/provisioning/repo/memory"
	repopg "github.com/tendant/content-provisioning/pkg/provisioning/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadServerConfig loads the configuration from the process environment.
func LoadServerConfig() (*ServerConfig, error) {
	return Load(WithEnv())
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		DBSchema:      "content",
		SeedTypes:     true,
		ProbeTimeout:  provisioning.DefaultProbeTimeout,
		ProbeCacheTTL: cache.DefaultTTL,
		S3Region:      "us-east-1",
	}
}

// ServerConfig represents server configuration for the provisioning service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: content)
	SeedTypes    bool   // ensure the canonical content types exist at startup

	// Size probing
	ProbeBaseDir  string
	ProbeTimeout  time.Duration
	EnableS3Probe bool
	S3Region      string
	S3Endpoint    string
	S3AccessKeyID string
	S3SecretKey   string
	S3PathStyle   bool
	RedisURL      string // enables the probe cache when set
	ProbeCacheTTL time.Duration

	// URL signing. Signed URLs always live presigned.DefaultTTL.
	SigningSecret string

	APIKeySHA256 string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.ProbeTimeout < 0 {
		return fmt.Errorf("probe timeout must not be negative, got %s", c.ProbeTimeout)
	}

	return nil
}

// Runtime holds a built service with the resources backing it.
type Runtime struct {
	Service    provisioning.Service
	Repository provisioning.Repository
	Signer     *presigned.Signer

	closers []func()
}

// Close releases connection pools and clients opened by Build.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Build creates the repository, probers and signer described by the
// configuration and wires them into a Service. extra options are applied
// last and may override any of them.
func (c *ServerConfig) Build(ctx context.Context, extra ...provisioning.Option) (*Runtime, error) {
	rt := &Runtime{}

	repo, err := c.buildRepository(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	rt.Repository = repo

	if c.SeedTypes {
		if err := provisioning.EnsureContentTypes(ctx, repo, provisioning.DefaultContentTypes...); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to seed content types: %w", err)
		}
	}

	prober, err := c.buildProber(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build size prober: %w", err)
	}

	var signerOpts []presigned.Option
	if c.SigningSecret != "" {
		signerOpts = append(signerOpts, presigned.WithSecretKey(c.SigningSecret))
	}
	rt.Signer = presigned.New(signerOpts...)

	options := []provisioning.Option{
		provisioning.WithRepository(repo),
		provisioning.WithSizeProber(prober),
		provisioning.WithSigner(rt.Signer),
		provisioning.WithProbeTimeout(c.ProbeTimeout),
	}
	svc, err := provisioning.New(append(options, extra...)...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc

	return rt, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, rt *Runtime) (provisioning.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := NewPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildProber chains the local filesystem prober with S3 and wraps the chain
// in the Redis cache when one is configured.
func (c *ServerConfig) buildProber(ctx context.Context, rt *Runtime) (provisioning.SizeProber, error) {
	probers := []provisioning.SizeProber{
		fsprober.New(fsprober.Config{BaseDir: c.ProbeBaseDir}),
	}

	if c.EnableS3Probe {
		s3p, err := s3prober.New(s3prober.Config{
			Region:          c.S3Region,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		probers = append(probers, s3p)
	}

	prober := provisioning.Probers(probers...)
	if c.RedisURL == "" {
		return prober, nil
	}

	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	rt.closers = append(rt.closers, func() { _ = client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return cache.New(client, prober, cache.WithTTL(c.ProbeCacheTTL)), nil
}

// NewPool opens a pgx pool and sets search_path on every connection when a
// schema is given. The pool is pinged before it is returned.
func NewPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}
