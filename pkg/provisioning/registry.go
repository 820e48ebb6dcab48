package provisioning

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Placeholder divisors for size-derived media estimates.
const (
	bytesPerPDFPage     = 50000
	bytesPerVideoSecond = 100000
	minPDFPages         = 1
	minVideoDuration    = 10
)

// Defaults for missing record locations and extensions.
const (
	defaultLinkURL     = "http://default.com"
	defaultImageFormat = "jpg"
	defaultVideoFormat = "mp4"
	textFormat         = "plain-text"
)

// whitespace matches runs of ASCII and Unicode space separators, including
// vertical tab, NBSP, BOM and the line/paragraph separators.
var whitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)

// PresenterFunc builds the presentation for one content type. signedURL is the
// signed form of content.URL and size is its probed byte count (0 if unknown).
type PresenterFunc func(content *Content, signedURL string, size int64) *Presentation

// Registry maps content type names to presenters. A Registry must not be
// modified once it is shared between goroutines.
type Registry struct {
	presenters map[string]PresenterFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{presenters: make(map[string]PresenterFunc)}
}

// DefaultRegistry returns a registry holding the pdf, image, video, link and
// text presenters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ContentTypePDF, presentPDF)
	r.Register(ContentTypeImage, presentImage)
	r.Register(ContentTypeVideo, presentVideo)
	r.Register(ContentTypeLink, presentLink)
	r.Register(ContentTypeText, presentText)
	return r
}

// Register adds or replaces the presenter for name.
func (r *Registry) Register(name string, fn PresenterFunc) {
	r.presenters[name] = fn
}

// Supports reports whether a presenter is registered for name.
func (r *Registry) Supports(name string) bool {
	_, ok := r.presenters[name]
	return ok
}

// Names returns the registered content type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presenters))
	for name := range r.presenters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Present dispatches content to the presenter for its content type.
func (r *Registry) Present(content *Content, signedURL string, size int64) (*Presentation, error) {
	if content.ContentType == nil {
		return nil, ErrMissingContentType
	}
	name := content.ContentType.Name
	fn, ok := r.presenters[name]
	if !ok {
		return nil, &UnsupportedTypeError{Type: name}
	}
	return fn(content, signedURL, size), nil
}

// basePresentation fills the fields shared by every content type.
func basePresentation(content *Content, typeName string) *Presentation {
	return &Presentation{
		ID:          content.ID,
		Title:       content.Title,
		Cover:       optional(content.Cover),
		Description: optional(content.Description),
		CreatedAt:   content.CreatedAt,
		TotalLikes:  content.TotalLikes,
		Type:        typeName,
	}
}

func presentPDF(content *Content, signedURL string, size int64) *Presentation {
	p := basePresentation(content, ContentTypePDF)
	p.URL = &signedURL
	p.AllowDownload = true
	p.IsEmbeddable = false
	p.Format = optional("pdf")
	p.Bytes = size
	p.Metadata = map[string]interface{}{
		"author":    "Unknown",
		"pages":     orFloor(size/bytesPerPDFPage, minPDFPages),
		"encrypted": false,
	}
	return p
}

func presentImage(content *Content, signedURL string, size int64) *Presentation {
	p := basePresentation(content, ContentTypeImage)
	p.URL = &signedURL
	p.AllowDownload = true
	p.IsEmbeddable = true
	p.Format = optional(extension(content.URL, defaultImageFormat))
	p.Bytes = size
	p.Metadata = map[string]interface{}{
		"resolution":   "1920x1080",
		"aspect_ratio": "16:9",
	}
	return p
}

func presentVideo(content *Content, signedURL string, size int64) *Presentation {
	p := basePresentation(content, ContentTypeVideo)
	p.URL = &signedURL
	p.AllowDownload = false
	p.IsEmbeddable = true
	p.Format = optional(extension(content.URL, defaultVideoFormat))
	p.Bytes = size
	p.Metadata = map[string]interface{}{
		"duration":   orFloor(size/bytesPerVideoSecond, minVideoDuration),
		"resolution": "1080p",
	}
	return p
}

// presentLink ignores the signed URL and the probed size.
func presentLink(content *Content, _ string, _ int64) *Presentation {
	p := basePresentation(content, ContentTypeLink)
	url := content.URL
	if url == "" {
		url = defaultLinkURL
	}
	p.URL = &url
	p.AllowDownload = false
	p.IsEmbeddable = true
	p.Format = nil
	p.Bytes = 0
	p.Metadata = map[string]interface{}{
		"trusted": strings.Contains(content.URL, "https"),
	}
	return p
}

// presentText sizes the description, not the stored resource.
func presentText(content *Content, _ string, _ int64) *Presentation {
	p := basePresentation(content, ContentTypeText)
	p.URL = optional(content.URL)
	p.AllowDownload = false
	p.IsEmbeddable = false
	p.Format = optional(textFormat)
	p.Bytes = int64(len(content.Description)) // UTF-8 byte length
	p.Metadata = map[string]interface{}{
		"word_count": wordCount(content.Description),
	}
	return p
}

// orFloor replaces a zero estimate with floor.
func orFloor(v int64, floor int64) int64 {
	if v == 0 {
		return floor
	}
	return v
}

// extension returns the lowercased extension of location without its dot,
// or fallback when there is none. Leading dots of the base name do not start
// an extension, so "uploads/.hidden" has none.
func extension(location, fallback string) string {
	base := strings.TrimLeft(path.Base(location), ".")
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return fallback
	}
	return strings.ToLower(ext)
}

// wordCount splits on whitespace runs. Leading and trailing runs yield empty
// tokens which are counted.
func wordCount(description string) int {
	if description == "" {
		return 0
	}
	return len(whitespace.Split(description, -1))
}
