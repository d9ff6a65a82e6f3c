package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bakerist/bakerist/internal/auth"
	"github.com/bakerist/bakerist/internal/cart"
	"github.com/bakerist/bakerist/internal/catalog"
	"github.com/bakerist/bakerist/internal/checkout"
	"github.com/bakerist/bakerist/internal/dashboard"
	"github.com/bakerist/bakerist/internal/orders"
	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
	"github.com/bakerist/bakerist/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	CatalogHandler   *catalog.Handler
	CartHandler      *cart.Handler
	CheckoutHandler  *checkout.Handler
	OrdersHandler    *orders.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler
	RBACMiddleware   rbac.Middleware
}

// NewRouter constructs the chi.Router with storefront defaults.
//
// Route map:
//
//	/auth/*        login, registration, session
//	/*             public catalog browsing and order tracking
//	/*             cart, checkout, own orders (customer session)
//	/admin/*       staff and admin management surface
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Public: anyone can browse the catalog and look up a tracking number.
	params.CatalogHandler.MountRoutes(r)
	params.OrdersHandler.MountPublicRoutes(r)

	// Session-scoped: the cart rides on the session, checkout and order
	// history additionally need a logged in customer.
	params.CartHandler.MountRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(params.RBACMiddleware.RequireUser)
		r.Use(params.RBACMiddleware.RequireAny(rbac.PermPlaceOrders))
		params.CheckoutHandler.MountRoutes(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(params.RBACMiddleware.RequireUser)
		r.Use(params.RBACMiddleware.RequireAny(rbac.PermViewOwnOrders))
		params.OrdersHandler.MountRoutes(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(params.RBACMiddleware.RequireUser)
		params.UsersHandler.MountRoutes(r)
	})

	// Management surface for staff and admin.
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAny(rbac.PermViewOrders))
			params.DashboardHandler.MountRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAny(rbac.PermViewOrders, rbac.PermUpdateOrderStatus))
			params.OrdersHandler.MountStaffRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAny(rbac.PermManageInventory))
			params.CatalogHandler.MountAdminRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAdmin)
			params.UsersHandler.MountAdminRoutes(r)
		})
		if params.JobHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(params.RBACMiddleware.RequireAdmin)
				r.Route("/jobs", params.JobHandler.MountRoutes)
			})
		}
	})

	return r
}
