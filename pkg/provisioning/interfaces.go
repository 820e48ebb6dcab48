package provisioning

import "context"

// Repository defines the interface for content and content type persistence
type Repository interface {
	// GetContentWithType returns a live (not soft-deleted) record with its
	// ContentType attached. It returns ErrContentNotFound when no such record
	// exists; any other error is a failure of the store itself.
	GetContentWithType(ctx context.Context, id string) (*Content, error)
	CreateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id string) error

	// Content type operations
	GetContentType(ctx context.Context, id string) (*ContentType, error)
	GetContentTypeByName(ctx context.Context, name string) (*ContentType, error)
	CreateContentType(ctx context.Context, contentType *ContentType) error
}

// SizeProber reports the byte size of the resource at location.
// It never fails: ok is false whenever the size cannot be determined.
type SizeProber interface {
	Probe(ctx context.Context, location string) (size int64, ok bool)
}

// SizeProberFunc adapts a plain function to SizeProber.
type SizeProberFunc func(ctx context.Context, location string) (int64, bool)

func (f SizeProberFunc) Probe(ctx context.Context, location string) (int64, bool) {
	return f(ctx, location)
}

// URLSigner produces a time-limited signed form of a URL.
type URLSigner interface {
	Sign(originalURL string) string
}

// Observer is notified of every provisioning and creation state transition.
// Implementations must be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, t Transition)
}
