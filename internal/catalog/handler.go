package catalog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
)

// Handler wires HTTP endpoints for the catalog.
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

// MountRoutes registers the customer-facing catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
}

// MountAdminRoutes registers inventory management routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/products", h.listProductsAdmin)
	r.Post("/products", h.createProduct)
	r.Patch("/products/{productID}", h.updateProduct)
	r.Post("/products/{productID}/stock", h.setStock)
	r.Post("/products/{productID}/availability", h.toggleAvailability)
	r.Get("/products/export.csv", h.exportCSV)
	r.Get("/products/low-stock", h.lowStock)
}

type productView struct {
	Product
	StockStatus StockStatus `json:"stock_status"`
	StockLabel  string      `json:"stock_label"`
}

func viewOf(p Product) productView {
	status := StatusForStock(p.Stock)
	return productView{Product: p, StockStatus: status, StockLabel: status.Label()}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) listProductsAdmin(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	q := r.URL.Query()
	products, err := h.service.List(r.Context(), ListFilter{
		Category:      q.Get("category"),
		Search:        q.Get("search"),
		SortBy:        q.Get("sort"),
		AvailableOnly: availableOnly,
	})
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*product))
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	product, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(*product))
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.UpdateFields(r.Context(), chi.URLParam(r, "productID"), FieldPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*product))
}

type setStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	var req setStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	product, err := h.service.SetStock(r.Context(), chi.URLParam(r, "productID"), req.Stock)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*product))
}

func (h *Handler) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.ToggleAvailability(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*product))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), ListFilter{})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filename := fmt.Sprintf("bakerist-products-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(w, products); err != nil {
		h.logger.Error("export products csv", slog.Any("error", err))
	}
}
