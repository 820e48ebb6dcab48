package presigned

import "time"

// Option is a functional option for configuring a Signer
type Option func(*Signer)

// WithSecretKey switches the signature to HMAC-SHA256 keyed with key.
// The key should be at least 32 bytes.
func WithSecretKey(key string) Option {
	return func(s *Signer) {
		s.secretKey = []byte(key)
	}
}

// WithTTL overrides DefaultTTL. Production callers keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		s.ttl = ttl
	}
}

// WithClock sets the source of the current time
func WithClock(now Clock) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// WithTokenSource sets the signature generator. It takes precedence over WithSecretKey.
func WithTokenSource(source TokenSource) Option {
	return func(s *Signer) {
		s.tokenSource = source
	}
}
