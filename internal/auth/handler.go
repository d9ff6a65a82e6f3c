package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
	r.Post("/password", h.ChangePassword)
}

type sessionResponse struct {
	User      *users.User `json:"user"`
	CSRFToken string      `json:"csrf_token"`
}

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	ContactNo  string `json:"contact_no"`
	Barangay   string `json:"barangay"`
	Sitio      string `json:"sitio"`
	Newsletter bool   `json:"newsletter"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ContactNo:  req.ContactNo,
		Barangay:   req.Barangay,
		Sitio:      req.Sitio,
		Newsletter: req.Newsletter,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// Registration logs the new account in immediately.
	sess := shared.SessionFromContext(r.Context())
	token := h.openSession(r, sess, user)
	httpx.JSON(w, http.StatusCreated, sessionResponse{User: user, CSRFToken: token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	token := h.openSession(r, sess, user)
	httpx.JSON(w, http.StatusOK, sessionResponse{User: user, CSRFToken: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessionManager.Destroy(sess)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	user, err := h.service.repo.GetByID(r.Context(), sess.User())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	token, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	httpx.JSON(w, http.StatusOK, sessionResponse{User: user, CSRFToken: token})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *Handler) openSession(r *http.Request, sess *shared.Session, user *users.User) string {
	if sess == nil {
		h.logger.Error("session missing during login")
		return ""
	}
	sess.SetUser(user.ID, user.Role)
	token, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Warn("ensure csrf token", slog.Any("error", err))
	}
	return token
}
