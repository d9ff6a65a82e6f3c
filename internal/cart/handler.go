package cart

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
)

// Handler wires HTTP endpoints for the cart.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers the cart routes. Carts belong to the session, so the
// caller must mount these behind the session middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{productID}", h.updateItem)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	items, err := h.service.Items(r.Context(), sess.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ViewOf(items))
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	items, err := h.service.Add(r.Context(), sess.ID, req.ProductID, req.Quantity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ViewOf(items))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req updateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	productID := chi.URLParam(r, "productID")
	items, err := h.service.UpdateQuantity(r.Context(), sess.ID, productID, req.Quantity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ViewOf(items))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	items, err := h.service.Remove(r.Context(), sess.ID, chi.URLParam(r, "productID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ViewOf(items))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	if err := h.service.Clear(r.Context(), sess.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ViewOf(nil))
}
