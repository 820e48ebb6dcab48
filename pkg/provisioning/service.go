package provisioning

import "context"

// Service defines the main interface for content provisioning
type Service interface {
	// Provision resolves a content record and returns its presentation with a
	// signed URL and type-specific metadata.
	Provision(ctx context.Context, contentID string) (*Presentation, error)

	// CreateContent persists a new record and returns the generic,
	// not-yet-provisioned presentation for it.
	CreateContent(ctx context.Context, req CreateContentRequest) (*Presentation, error)

	// DeleteContent soft-deletes a record.
	DeleteContent(ctx context.Context, contentID string) error

	// ContentTypes lists the content type names that can be provisioned.
	ContentTypes() []string
}
