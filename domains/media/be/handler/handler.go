package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courseloop/classroom-media/domains/media/be/service"
	platformlogging "github.com/courseloop/classroom-media/platform/go/logging"
	"github.com/courseloop/classroom-media/platform/go/respond"
)

// Handler wires the media service to its HTTP routes.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("media service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the media routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/uploads", h.CreateUpload)
	r.Get("/uploads/{uploadID}", h.GetUpload)
	r.Get("/assets", h.ListAssets)
	r.Post("/assets", h.CreateAsset)
	r.Get("/assets/{assetID}", h.GetAsset)
	r.Post("/live-streams", h.CreateLiveStream)
}

// CreateUpload handles POST /uploads. No body is required; an optional
// origin narrows the upload CORS policy.
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	upload, err := h.svc.CreateUpload(r.Context(), service.CreateUploadInput{
		CORSOrigin: r.URL.Query().Get("origin"),
	})
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, upload)
}

// GetUpload handles GET /uploads/{uploadID}.
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	upload, err := h.svc.GetUpload(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, upload)
}

// GetAsset handles GET /assets/{assetID}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	asset, err := h.svc.GetAsset(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, asset)
}

type createAssetRequest struct {
	URL string `json:"url"`
}

// CreateAsset handles POST /assets with a JSON body naming the source URL.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	var body createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Err(w, logger, &respond.InvalidInputError{Message: "invalid request body"})
		return
	}

	asset, err := h.svc.CreateAssetFromURL(r.Context(), body.URL)
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, asset)
}

// CreateLiveStream handles POST /live-streams.
func (h *Handler) CreateLiveStream(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	stream, err := h.svc.CreateLiveStream(r.Context())
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, stream)
}

// ListAssets handles GET /assets with optional limit/page params.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	input := service.ListInput{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respond.Err(w, logger, &respond.InvalidInputError{Message: "limit must be a positive integer"})
			return
		}
		input.Limit = limit
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			respond.Err(w, logger, &respond.InvalidInputError{Message: "page must be a positive integer"})
			return
		}
		input.Page = page
	}

	assets, err := h.svc.ListAssets(r.Context(), input)
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, assets)
}
