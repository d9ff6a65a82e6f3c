package rbac

import (
	"log/slog"
	"net/http"

	"github.com/bakerist/bakerist/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. Permission
// checks read the role captured in the session at login.
type Middleware struct {
	Logger *slog.Logger
}

// RequireUser ensures the request carries an authenticated session.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.CurrentUserID(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny ensures the current user has at least one of the required
// permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			for _, p := range perms {
				if HasPermission(sess.Role(), p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.String("role", sess.Role()),
					slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAdmin ensures the current user holds the admin role.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if sess.Role() != RoleAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
