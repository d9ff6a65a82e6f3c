package orders

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bakerist/bakerist/internal/cart"
	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
)

// CartAdder re-adds order lines to the caller's cart. The cart service
// satisfies it.
type CartAdder interface {
	Add(ctx context.Context, sessionID, productID string, quantity int) ([]cart.Item, error)
}

// Handler wires HTTP endpoints for orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	carts     CartAdder
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, carts CartAdder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		carts:     carts,
		validator: validator.New(),
	}
}

// MountPublicRoutes registers the unauthenticated tracking lookup.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/track/{orderID}", h.trackOrder)
}

// MountRoutes registers the customer order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.listOwnOrders)
	r.Get("/orders/{orderID}", h.getOwnOrder)
	r.Get("/orders/{orderID}/receipt", h.getReceipt)
	r.Post("/orders/{orderID}/reorder", h.reorder)
}

// MountStaffRoutes registers the order management routes for staff and admin.
func (h *Handler) MountStaffRoutes(r chi.Router) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{orderID}", h.getOrder)
	r.Get("/orders/export.csv", h.exportCSV)
	r.Post("/orders/{orderID}/advance", h.advanceStatus)
	r.Put("/orders/{orderID}/status", h.setStatus)
}

type trackingView struct {
	OrderID        string         `json:"order_id"`
	TrackingStatus string         `json:"tracking_status"`
	Tracking       []TrackingStep `json:"tracking"`
	Total          string         `json:"total"`
	PlacedAt       time.Time      `json:"placed_at"`
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trackingView{
		OrderID:        order.ID,
		TrackingStatus: order.TrackingStatus,
		Tracking:       TrackingTimeline(order.TrackingStatus),
		Total:          FormatPeso(order.Total),
		PlacedAt:       order.CreatedAt,
	})
}

func (h *Handler) listOwnOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	list, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Order{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getOwnOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	order, err := h.service.GetForUser(r.Context(), chi.URLParam(r, "orderID"), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	order, err := h.service.GetForUser(r.Context(), chi.URLParam(r, "orderID"), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildReceipt(order))
}

type reorderResponse struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped"`
}

// reorder re-adds a past order's lines to the cart at current prices. Lines
// whose product is gone or out of stock are skipped rather than failing the
// whole request.
func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	order, err := h.service.GetForUser(r.Context(), chi.URLParam(r, "orderID"), sess.User())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	resp := reorderResponse{Skipped: []string{}}
	for _, item := range order.Items {
		if _, err := h.carts.Add(r.Context(), sess.ID, item.ProductID, item.Qty); err != nil {
			resp.Skipped = append(resp.Skipped, item.Name)
			continue
		}
		resp.Added++
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment_status"),
		Search:        q.Get("search"),
		Since:         sinceForRange(q.Get("range"), time.Now()),
	}
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Order{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), ListFilter{})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filename := fmt.Sprintf("bakerist-orders-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(w, list); err != nil {
		h.logger.Error("write orders csv", "error", err)
	}
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Advance(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	order, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// sinceForRange maps the admin date-range filter to a cutoff time.
func sinceForRange(rangeKey string, now time.Time) *time.Time {
	var since time.Time
	switch rangeKey {
	case "today":
		since = now.Truncate(24 * time.Hour)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &since
}
