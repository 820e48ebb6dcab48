package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/content-provisioning/pkg/provisioning"
)

// Repository implements provisioning.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	contents     map[string]*provisioning.Content
	contentTypes map[string]*provisioning.ContentType
	typesByName  map[string]string // name -> content_type_id
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		contents:     make(map[string]*provisioning.Content),
		contentTypes: make(map[string]*provisioning.ContentType),
		typesByName:  make(map[string]string),
	}
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *provisioning.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy without the attached type; it is resolved on read
	contentCopy := *content
	contentCopy.ContentType = nil
	r.contents[content.ID] = &contentCopy

	return nil
}

// GetContentWithType returns a copy of the record with its type attached. A
// record whose content_type_id does not resolve is returned with a nil type.
func (r *Repository) GetContentWithType(ctx context.Context, id string) (*provisioning.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists || content.DeletedAt != nil {
		return nil, provisioning.ErrContentNotFound
	}

	// Return a copy to prevent external modifications
	contentCopy := *content
	if ct, ok := r.contentTypes[content.ContentTypeID]; ok {
		ctCopy := *ct
		contentCopy.ContentType = &ctCopy
	}
	return &contentCopy, nil
}

func (r *Repository) DeleteContent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.contents[id]
	if !exists || c.DeletedAt != nil {
		return provisioning.ErrContentNotFound
	}

	now := time.Now().UTC()
	c.DeletedAt = &now
	c.UpdatedAt = now
	return nil
}

// Content type operations

func (r *Repository) GetContentType(ctx context.Context, id string) (*provisioning.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, exists := r.contentTypes[id]
	if !exists {
		return nil, provisioning.ErrContentTypeNotFound
	}
	ctCopy := *ct
	return &ctCopy, nil
}

func (r *Repository) GetContentTypeByName(ctx context.Context, name string) (*provisioning.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.typesByName[name]
	if !exists {
		return nil, provisioning.ErrContentTypeNotFound
	}
	ctCopy := *r.contentTypes[id]
	return &ctCopy, nil
}

func (r *Repository) CreateContentType(ctx context.Context, contentType *provisioning.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.typesByName[contentType.Name]; exists {
		return provisioning.ErrContentTypeExists
	}
	if _, exists := r.contentTypes[contentType.ID]; exists {
		return provisioning.ErrContentTypeExists
	}

	ctCopy := *contentType
	r.contentTypes[contentType.ID] = &ctCopy
	r.typesByName[contentType.Name] = contentType.ID
	return nil
}

var _ provisioning.Repository = (*Repository)(nil)
