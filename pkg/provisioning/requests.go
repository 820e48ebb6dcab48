package provisioning

// CreateContentRequest contains parameters for creating new content
type CreateContentRequest struct {
	Title         string
	Description   string
	URL           string
	Cover         string
	ContentTypeID string
}
