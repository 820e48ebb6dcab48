package provisioning

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidInput indicates an empty or malformed request field
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentNotFound indicates a content was not found, or could not be fetched
	ErrContentNotFound = errors.New("content not found")

	// ErrContentTypeNotFound indicates a referenced content type does not exist
	ErrContentTypeNotFound = errors.New("content type not found")

	// ErrContentTypeExists indicates a content type with the same name is already stored
	ErrContentTypeExists = errors.New("content type already exists")

	// ErrMissingContentType indicates a stored record has no associated content type
	ErrMissingContentType = errors.New("content type is missing")

	// ErrUnsupportedContentType indicates no presenter is registered for a content type
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// UnsupportedTypeError names the content type that has no registered presenter.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported content type: %s", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedContentType
}

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID string
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %q: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// Error kinds reported by Kind.
const (
	KindInvalidInput    = "invalid_input"
	KindNotFound        = "not_found"
	KindTypeNotFound    = "type_not_found"
	KindMissingType     = "missing_type"
	KindUnsupportedType = "unsupported_type"
	KindInternal        = "internal"
)

// Kind classifies err into one of the client-distinguishable error kinds.
// A nil error has kind "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrContentNotFound):
		return KindNotFound
	case errors.Is(err, ErrContentTypeNotFound):
		return KindTypeNotFound
	case errors.Is(err, ErrMissingContentType):
		return KindMissingType
	case errors.Is(err, ErrUnsupportedContentType):
		return KindUnsupportedType
	default:
		return KindInternal
	}
}
