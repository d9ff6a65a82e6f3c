package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

const testCookie = "bakerist_session"

func newTestRouter(t *testing.T) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second}
	sessionManager := shared.NewSessionManager(client, testCookie, time.Hour, false)
	csrfManager := shared.NewCSRFManager("test-secret")

	usersService := users.NewService(users.NewRepository(nil))
	catalogService := catalog.NewService(catalog.NewRepository(nil))
	cartService := cart.NewService(logger, cart.NewRepository(client, time.Hour), catalogService)
	ordersService := orders.NewService(logger, orders.NewRepository(nil), nil)
	checkoutService := checkout.NewService(logger, checkout.NewRepository(nil), cartService)

	router := NewRouter(RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      auth.NewHandler(logger, auth.NewService(users.NewRepository(nil)), sessionManager, csrfManager),
		UsersHandler:     users.NewHandler(logger, usersService),
		CatalogHandler:   catalog.NewHandler(logger, catalogService),
		CartHandler:      cart.NewHandler(logger, cartService),
		CheckoutHandler:  checkout.NewHandler(logger, checkoutService),
		OrdersHandler:    orders.NewHandler(logger, ordersService, cartService),
		DashboardHandler: dashboard.NewHandler(logger, dashboard.NewService(ordersService, catalogService, usersService)),
		JobHandler:       jobs.NewHandler(nil, logger),
		RBACMiddleware:   rbac.Middleware{Logger: logger},
	})
	return router, mr
}

func seedSession(t *testing.T, mr *miniredis.Miniredis, id, userID, role string) {
	t.Helper()
	payload := `{"values":{},"user_id":"` + userID + `","role":"` + role + `","login_time":"2025-01-20T09:00:00Z"}`
	require.NoError(t, mr.Set("session:"+id, payload))
}

func TestJobsHealthRequiresAdmin(t *testing.T) {
	router, mr := newTestRouter(t)

	// Anonymous callers are turned away before the handler runs.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Staff can manage orders but the queue surface stays admin only.
	seedSession(t, mr, "sess-staff", "user_staff", rbac.RoleStaff)
	req := httptest.NewRequest(http.MethodGet, "/admin/jobs/health", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-staff"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	seedSession(t, mr, "sess-admin", "user_admin", rbac.RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/admin/jobs/health", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-admin"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func TestDashboardRejectsCustomers(t *testing.T) {
	router, mr := newTestRouter(t)

	seedSession(t, mr, "sess-cust", "user_cust", rbac.RoleCustomer)
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-cust"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
