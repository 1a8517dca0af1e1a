package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courseloop/classroom-media/domains/diagnostics/be/service"
	platformlogging "github.com/courseloop/classroom-media/platform/go/logging"
	"github.com/courseloop/classroom-media/platform/go/respond"
)

// Handler wires the diagnostics service to its HTTP routes.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("diagnostics service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the diagnostics routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/diagnostics/classes", h.ListClasses)
	r.Patch("/diagnostics/classes/{id}", h.PatchClass)
	r.Get("/diagnostics/selftest", h.SelfTest)
}

// ListClasses handles GET /diagnostics/classes.
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.Err(w, logger, &respond.InvalidInputError{Message: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	rows, err := h.svc.ListClasses(r.Context(), limit)
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, rows)
}

// PatchClass handles PATCH /diagnostics/classes/{id} with a JSON body of
// column/value pairs.
func (h *Handler) PatchClass(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Err(w, logger, &respond.InvalidInputError{Message: "invalid request body"})
		return
	}

	row, err := h.svc.PatchClass(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	respond.Success(w, row)
}

// SelfTest handles GET /diagnostics/selftest.
func (h *Handler) SelfTest(w http.ResponseWriter, r *http.Request) {
	report := h.svc.SelfTest(r.Context())
	respond.Success(w, report)
}
