package provisioning

import "time"

// Canonical content type names understood by the default registry.
const (
	ContentTypePDF   = "pdf"
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
	ContentTypeLink  = "link"
	ContentTypeText  = "text"
)

// ContentType tags a content record with the presentation strategy that applies to it.
type ContentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Content is a stored content record.
//
// ContentType is attached by Repository.GetContentWithType. A persisted record
// always references a type; a nil ContentType on a fetched record is a data
// integrity problem, not absence.
type Content struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	URL           string       `json:"url,omitempty"`
	Cover         string       `json:"cover,omitempty"`
	TotalLikes    int          `json:"total_likes"`
	ContentTypeID string       `json:"content_type_id"`
	CompanyID     string       `json:"company_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	DeletedAt     *time.Time   `json:"deleted_at,omitempty"`
	ContentType   *ContentType `json:"content_type,omitempty"`
}

// Presentation is the client-facing shape produced for a content record.
// It is built fresh per request and never persisted.
type Presentation struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Cover         *string                `json:"cover"`
	Description   *string                `json:"description"`
	CreatedAt     time.Time              `json:"created_at"`
	TotalLikes    int                    `json:"total_likes"`
	Type          string                 `json:"type"`
	URL           *string                `json:"url"`
	AllowDownload bool                   `json:"allow_download"`
	IsEmbeddable  bool                   `json:"is_embeddable"`
	Format        *string                `json:"format"`
	Bytes         int64                  `json:"bytes"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// optional maps the empty string to a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DefaultContentTypes are the canonical seed rows for the supported types.
var DefaultContentTypes = []ContentType{
	{ID: "11111111-1111-1111-1111-111111111111", Name: ContentTypePDF},
	{ID: "22222222-2222-2222-2222-222222222222", Name: ContentTypeImage},
	{ID: "33333333-3333-3333-3333-333333333333", Name: ContentTypeVideo},
	{ID: "44444444-4444-4444-4444-444444444444", Name: ContentTypeLink},
	{ID: "55555555-5555-5555-5555-555555555555", Name: ContentTypeText},
}
