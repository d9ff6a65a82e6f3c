package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakerist/bakerist/internal/platform/httpx"
)

// Handler wires the dashboard endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the overview route. Callers mount it behind the
// staff permission middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Overview(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}
