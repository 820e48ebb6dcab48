// Package cache memoizes size probes in Redis.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tendant/content-provisioning/pkg/provisioning"
)

// DefaultTTL is how long a probed size is remembered.
const DefaultTTL = 5 * time.Minute

// Prober is a read-through cache in front of another SizeProber. Only sizes
// that were found are cached, and any Redis failure falls through to the
// wrapped prober.
type Prober struct {
	client redis.Cmdable
	next   provisioning.SizeProber
	ttl    time.Duration
	prefix string
}

// Option configures a Prober
type Option func(*Prober)

// WithTTL sets how long sizes are cached
func WithTTL(ttl time.Duration) Option {
	return func(p *Prober) {
		p.ttl = ttl
	}
}

// WithPrefix sets the Redis key prefix
func WithPrefix(prefix string) Option {
	return func(p *Prober) {
		p.prefix = prefix
	}
}

// New wraps next with a Redis cache
func New(client redis.Cmdable, next provisioning.SizeProber, opts ...Option) *Prober {
	p := &Prober{
		client: client,
		next:   next,
		ttl:    DefaultTTL,
		prefix: "provisioning:size:",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prober) key(location string) string {
	return p.prefix + location
}

func (p *Prober) Probe(ctx context.Context, location string) (int64, bool) {
	cached, err := p.client.Get(ctx, p.key(location)).Result()
	switch {
	case err == nil:
		if size, convErr := strconv.ParseInt(cached, 10, 64); convErr == nil && size >= 0 {
			return size, true
		}
	case !errors.Is(err, redis.Nil):
		slog.Debug("Size cache read failed", "location", location, "err", err)
	}

	size, ok := p.next.Probe(ctx, location)
	if !ok {
		return 0, false
	}

	if err := p.client.Set(ctx, p.key(location), strconv.FormatInt(size, 10), p.ttl).Err(); err != nil {
		slog.Debug("Size cache write failed", "location", location, "err", err)
	}
	return size, true
}
