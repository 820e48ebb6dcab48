package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/content-provisioning/pkg/provisioning/presigned"
)

// DefaultProbeTimeout bounds a single size probe.
const DefaultProbeTimeout = 2 * time.Second

// service implements the Service interface
type service struct {
	repository   Repository
	prober       SizeProber
	signer       URLSigner
	registry     *Registry
	observer     Observer
	probeTimeout time.Duration
	now          func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithSizeProber sets the prober used to size content locations
func WithSizeProber(prober SizeProber) Option {
	return func(s *service) {
		s.prober = prober
	}
}

// WithSigner sets the URL signer
func WithSigner(signer URLSigner) Option {
	return func(s *service) {
		s.signer = signer
	}
}

// WithRegistry replaces the default presenter registry
func WithRegistry(registry *Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithObserver sets the transition observer. Use Observers to combine several.
func WithObserver(observer Observer) Option {
	return func(s *service) {
		s.observer = observer
	}
}

// WithProbeTimeout bounds each size probe; a timed out probe counts as unknown size.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(s *service) {
		s.probeTimeout = timeout
	}
}

// WithClock sets the clock used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		prober:       SizeProberFunc(func(context.Context, string) (int64, bool) { return 0, false }),
		signer:       presigned.New(),
		registry:     DefaultRegistry(),
		observer:     NoopObserver{},
		probeTimeout: DefaultProbeTimeout,
		now:          time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	return s, nil
}

// Provision runs Start → Validated → Fetched → SizeProbed → Signed →
// TypeChecked → Presented, reporting each transition to the observer. Any
// step may end in StageFailed instead.
func (s *service) Provision(ctx context.Context, contentID string) (*Presentation, error) {
	started := time.Now()
	t := Transition{Op: OpProvision, ContentID: contentID}
	s.transition(ctx, &t, StageStart)

	if strings.TrimSpace(contentID) == "" {
		return nil, s.fail(ctx, &t, started, fmt.Errorf("%w: content id is empty", ErrInvalidInput))
	}
	s.transition(ctx, &t, StageValidated)

	content, err := s.repository.GetContentWithType(ctx, contentID)
	if err != nil {
		if !errors.Is(err, ErrContentNotFound) {
			// Store failures are reported as not found; the cause stays in the chain.
			err = fmt.Errorf("%w: %w", ErrContentNotFound, err)
		}
		return nil, s.fail(ctx, &t, started, err)
	}
	if content == nil {
		return nil, s.fail(ctx, &t, started, ErrContentNotFound)
	}
	s.transition(ctx, &t, StageFetched)

	t.Bytes = s.probe(ctx, content.URL)
	s.transition(ctx, &t, StageSizeProbed)

	signedURL := s.signer.Sign(content.URL)
	s.transition(ctx, &t, StageSigned)

	if content.ContentType == nil {
		return nil, s.fail(ctx, &t, started, ErrMissingContentType)
	}
	t.ContentType = content.ContentType.Name
	s.transition(ctx, &t, StageTypeChecked)

	presentation, err := s.registry.Present(content, signedURL, t.Bytes)
	if err != nil {
		return nil, s.fail(ctx, &t, started, err)
	}

	t.Elapsed = time.Since(started)
	s.transition(ctx, &t, StagePresented)
	return presentation, nil
}

// probe sizes location on a best-effort basis; unknown sizes are 0.
func (s *service) probe(ctx context.Context, location string) int64 {
	if location == "" || s.prober == nil {
		return 0
	}

	if s.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()
	}

	size, ok := s.prober.Probe(ctx, location)
	if !ok || size < 0 {
		return 0
	}
	return size
}

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Presentation, error) {
	started := time.Now()
	t := Transition{Op: OpCreate}

	if strings.TrimSpace(req.Title) == "" {
		return nil, s.fail(ctx, &t, started, fmt.Errorf("%w: title is required", ErrInvalidInput))
	}
	if strings.TrimSpace(req.ContentTypeID) == "" {
		return nil, s.fail(ctx, &t, started, fmt.Errorf("%w: content type id is required", ErrInvalidInput))
	}

	contentType, err := s.repository.GetContentType(ctx, req.ContentTypeID)
	if err != nil {
		if !errors.Is(err, ErrContentTypeNotFound) {
			err = fmt.Errorf("failed to fetch content type %s: %w", req.ContentTypeID, err)
		}
		return nil, s.fail(ctx, &t, started, err)
	}
	t.ContentType = contentType.Name

	now := s.now().UTC()
	content := &Content{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		URL:           req.URL,
		Cover:         req.Cover,
		TotalLikes:    0,
		ContentTypeID: contentType.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
		ContentType:   contentType,
	}
	t.ContentID = content.ID

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, s.fail(ctx, &t, started, err)
	}

	t.Elapsed = time.Since(started)
	s.transition(ctx, &t, StageCreated)
	return genericPresentation(content), nil
}

// genericPresentation is the shape returned for content that has not been
// provisioned yet. The registry is not consulted.
func genericPresentation(content *Content) *Presentation {
	p := basePresentation(content, content.ContentType.Name)
	p.URL = optional(content.URL)
	p.AllowDownload = false
	p.IsEmbeddable = true
	p.Format = nil
	p.Bytes = 0
	p.TotalLikes = 0
	p.Metadata = map[string]interface{}{}
	return p
}

func (s *service) DeleteContent(ctx context.Context, contentID string) error {
	if strings.TrimSpace(contentID) == "" {
		return &ContentError{ContentID: contentID, Op: "delete", Err: ErrInvalidInput}
	}
	if err := s.repository.DeleteContent(ctx, contentID); err != nil {
		return &ContentError{ContentID: contentID, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) ContentTypes() []string {
	return s.registry.Names()
}

func (s *service) transition(ctx context.Context, t *Transition, stage Stage) {
	t.Stage = stage
	s.observer.Observe(ctx, *t)
}

// fail reports the terminal transition and wraps err for the caller.
func (s *service) fail(ctx context.Context, t *Transition, started time.Time, err error) error {
	t.Err = err
	t.Elapsed = time.Since(started)
	s.transition(ctx, t, StageFailed)
	return &ContentError{ContentID: t.ContentID, Op: t.Op, Err: err}
}

// EnsureContentTypes creates each of types that is not yet stored under its name.
func EnsureContentTypes(ctx context.Context, repo Repository, types ...ContentType) error {
	for _, ct := range types {
		_, err := repo.GetContentTypeByName(ctx, ct.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrContentTypeNotFound) {
			return fmt.Errorf("failed to look up content type %s: %w", ct.Name, err)
		}
		ct := ct
		if ct.ID == "" {
			ct.ID = uuid.NewString()
		}
		if err := repo.CreateContentType(ctx, &ct); err != nil {
			return fmt.Errorf("failed to create content type %s: %w", ct.Name, err)
		}
	}
	return nil
}
