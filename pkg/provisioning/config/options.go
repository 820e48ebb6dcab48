package config

import (
	"fmt"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the Postgres schema
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithSeedTypes toggles seeding of the canonical content types
func WithSeedTypes(seed bool) Option {
	return func(c *ServerConfig) error {
		c.SeedTypes = seed
		return nil
	}
}

// WithProbeBaseDir sets the directory relative content locations resolve against
func WithProbeBaseDir(dir string) Option {
	return func(c *ServerConfig) error {
		c.ProbeBaseDir = dir
		return nil
	}
}

// WithProbeTimeout bounds each size probe
func WithProbeTimeout(timeout time.Duration) Option {
	return func(c *ServerConfig) error {
		if timeout < 0 {
			return fmt.Errorf("probe timeout cannot be negative")
		}
		c.ProbeTimeout = timeout
		return nil
	}
}

// WithS3Probe enables sizing of s3:// locations
func WithS3Probe(region, endpoint, accessKeyID, secretKey string, pathStyle bool) Option {
	return func(c *ServerConfig) error {
		c.EnableS3Probe = true
		if region != "" {
			c.S3Region = region
		}
		c.S3Endpoint = endpoint
		c.S3AccessKeyID = accessKeyID
		c.S3SecretKey = secretKey
		c.S3PathStyle = pathStyle
		return nil
	}
}

// WithProbeCache caches probed sizes in Redis
func WithProbeCache(redisURL string, ttl time.Duration) Option {
	return func(c *ServerConfig) error {
		if redisURL == "" {
			return fmt.Errorf("redis URL cannot be empty")
		}
		c.RedisURL = redisURL
		if ttl > 0 {
			c.ProbeCacheTTL = ttl
		}
		return nil
	}
}

// WithSigningSecret sets the HMAC secret for signed URLs
func WithSigningSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.SigningSecret = secret
		return nil
	}
}
