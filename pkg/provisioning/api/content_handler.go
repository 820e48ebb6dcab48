package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/content-provisioning/pkg/provisioning"
)

// CreateContentRequest is the request body for creating a content
type CreateContentRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Cover         string `json:"cover"`
	ContentTypeID string `json:"content_type_id"`
}

// ErrorResponse is the body written for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ContentTypesResponse lists the content types the service can present
type ContentTypesResponse struct {
	ContentTypes []string `json:"content_types"`
}

// ContentHandler handles HTTP requests for content provisioning
type ContentHandler struct {
	service provisioning.Service
	logger  *slog.Logger
}

// NewContentHandler creates a new content handler. A nil logger uses slog.Default.
func NewContentHandler(service provisioning.Service, logger *slog.Logger) *ContentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{
		service: service,
		logger:  logger,
	}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateContent)
	r.Get("/{id}/provision", h.ProvisionContent)
	r.Delete("/{id}", h.DeleteContent)

	return r
}

// ProvisionContent returns the presentation object for a stored content
func (h *ContentHandler) ProvisionContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	presentation, err := h.service.Provision(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "Failed to provision content", err, "content_id", id)
		return
	}

	h.logger.Info("Content provisioned", "content_id", id, "type", presentation.Type, "bytes", presentation.Bytes)
	render.JSON(w, r, presentation)
}

// CreateContent creates a new content
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body", Kind: provisioning.KindInvalidInput})
		return
	}

	presentation, err := h.service.CreateContent(r.Context(), provisioning.CreateContentRequest{
		Title:         req.Title,
		Description:   req.Description,
		URL:           req.URL,
		Cover:         req.Cover,
		ContentTypeID: req.ContentTypeID,
	})
	if err != nil {
		h.writeError(w, r, "Failed to create content", err, "content_type_id", req.ContentTypeID)
		return
	}

	h.logger.Info("Content created", "content_id", presentation.ID, "type", presentation.Type)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, presentation)
}

// DeleteContent soft deletes a content by ID
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		h.writeError(w, r, "Failed to delete content", err, "content_id", id)
		return
	}

	h.logger.Info("Content deleted", "content_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListContentTypes returns the names of the registered content types
func (h *ContentHandler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, ContentTypesResponse{ContentTypes: h.service.ContentTypes()})
}

func (h *ContentHandler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	status := statusFor(err)
	attrs = append(attrs, "error", err, "status", status)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, attrs...)
	} else {
		h.logger.Warn(msg, attrs...)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error(), Kind: provisioning.Kind(err)})
}

// statusFor maps an error kind to an HTTP status code.
func statusFor(err error) int {
	switch provisioning.Kind(err) {
	case provisioning.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case provisioning.KindNotFound, provisioning.KindTypeNotFound:
		return http.StatusNotFound
	case provisioning.KindMissingType, provisioning.KindUnsupportedType:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
