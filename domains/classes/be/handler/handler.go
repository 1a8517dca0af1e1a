package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courseloop/classroom-media/domains/classes/be/service"
	platformlogging "github.com/courseloop/classroom-media/platform/go/logging"
	"github.com/courseloop/classroom-media/platform/go/respond"
)

// Handler wires the classes service to its HTTP routes.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("classes service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the classes routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Delete("/classes/{classID}", h.DeleteVideo)
}

// DeleteVideo handles DELETE /classes/{classID}?userId=...
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	input := service.DeleteVideoInput{
		ClassID: chi.URLParam(r, "classID"),
		UserID:  r.URL.Query().Get("userId"),
	}

	result, err := h.svc.DeleteVideo(r.Context(), input)
	if err != nil {
		respond.Err(w, logger, err)
		return
	}

	if result.Mux.Attempted && !result.Mux.Success {
		logger.Warn("vendor asset cleanup failed",
			zap.String("class_id", result.ClassID),
			zap.String("mux_error", result.Mux.Error),
		)
	}

	respond.Success(w, result)
}
