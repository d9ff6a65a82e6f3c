package checkout

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
)

// Handler wires HTTP endpoints for checkout.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers checkout routes. Placing an order requires a logged
// in customer; the zone table and fee quote back the checkout form.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/checkout/zones", h.listZones)
	r.Get("/checkout/quote", h.quote)
	r.Post("/checkout", h.placeOrder)
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.service.Zones(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if zones == nil {
		zones = []Zone{}
	}
	httpx.JSON(w, http.StatusOK, zones)
}

type quoteResponse struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Total       float64 `json:"total"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	subtotal, shipping, err := h.service.Quote(r.Context(), sess.ID, r.URL.Query().Get("barangay"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quoteResponse{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Total:       subtotal + shipping,
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var input Input
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	order, err := h.service.ProcessOrder(r.Context(), sess.User(), sess.ID, input)
	if err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			httpx.FieldProblem(w, fieldErr.Field, fieldErr.Detail)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}
