package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bakerist/bakerist/internal/platform/httpx"
	"github.com/bakerist/bakerist/internal/shared"
)

// Handler wires HTTP endpoints for profiles and staff management.
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

// MountRoutes registers profile routes for authenticated users.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/profile", h.getProfile)
	r.Put("/profile", h.updateProfile)
}

// MountAdminRoutes registers staff management routes (admin only).
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/staff", h.listStaff)
	r.Post("/staff", h.createStaff)
	r.Put("/staff/{staffID}", h.updateStaff)
	r.Delete("/staff/{staffID}", h.deactivateStaff)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactNo   string `json:"contact_no"`
	Barangay    string `json:"barangay"`
	Sitio       string `json:"sitio"`
	Newsletter  bool   `json:"newsletter"`
	SMSNotified bool   `json:"sms_notifications"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), userID, ProfileUpdate{
		Name:      req.Name,
		ContactNo: req.ContactNo,
		Barangay:  req.Barangay,
		Sitio:     req.Sitio,
		Preferences: Preferences{
			Newsletter:       req.Newsletter,
			SMSNotifications: req.SMSNotified,
		},
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.ListStaff(r.Context())
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, staff)
}

type createStaffRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Role        string   `json:"role"`
	ContactNo   string   `json:"contact_no"`
	Department  string   `json:"department"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	actorID, _ := shared.CurrentUserID(r.Context())
	var req createStaffRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	user, err := h.service.CreateStaff(r.Context(), actorID, CreateStaffInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		ContactNo:   req.ContactNo,
		Department:  req.Department,
		Permissions: req.Permissions,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

type updateStaffRequest struct {
	Name        *string   `json:"name"`
	Role        *string   `json:"role"`
	ContactNo   *string   `json:"contact_no"`
	Department  *string   `json:"department"`
	IsActive    *bool     `json:"is_active"`
	Permissions *[]string `json:"permissions"`
}

func (h *Handler) updateStaff(w http.ResponseWriter, r *http.Request) {
	actorID, _ := shared.CurrentUserID(r.Context())
	staffID := chi.URLParam(r, "staffID")
	var req updateStaffRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	user, err := h.service.UpdateStaff(r.Context(), actorID, staffID, StaffUpdate{
		Name:        req.Name,
		Role:        req.Role,
		ContactNo:   req.ContactNo,
		Department:  req.Department,
		IsActive:    req.IsActive,
		Permissions: req.Permissions,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) deactivateStaff(w http.ResponseWriter, r *http.Request) {
	actorID, _ := shared.CurrentUserID(r.Context())
	staffID := chi.URLParam(r, "staffID")
	if err := h.service.DeactivateStaff(r.Context(), actorID, staffID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
