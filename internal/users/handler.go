package users

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/shared/auth"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
	"jobtrack-backend/internal/shared/telemetry"
)

// GuestMigrator imports a guest session's applications into a freshly
// registered account. Implemented by the migration service; kept as an
// interface here so account handling does not depend on storage details.
type GuestMigrator interface {
	Run(ctx context.Context, guestID, userID string) (migrated, failed int, err error)
}

// Handler wires account HTTP endpoints to the service.
type Handler struct {
	Svc      *Service
	Migrator GuestMigrator
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, migrator GuestMigrator) *Handler {
	return &Handler{Svc: svc, Migrator: migrator}
}

// RegisterRoutes attaches account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/refresh", h.refresh)
	rg.GET("/auth/me", h.me)
	rg.PUT("/auth/profile", h.updateProfile)
	rg.PUT("/auth/password", h.changePassword)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}
	if len(req.FirstName) > 100 || len(req.LastName) > 100 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name must be at most 100 characters", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register", nil)
		return
	}

	// Best-effort import of guest records captured before registration.
	if guestID := middleware.MigrateGuestIDFromContext(c); guestID != "" && h.Migrator != nil {
		migrated, failed, err := h.Migrator.Run(c.Request.Context(), guestID, user.ID)
		fields := map[string]any{
			"user_id":  user.ID,
			"migrated": migrated,
			"failed":   failed,
		}
		if err != nil {
			fields["error"] = err.Error()
			telemetry.Error("register.guest_migration", fields)
		} else {
			telemetry.Info("register.guest_migration", fields)
		}
	}

	h.respondWithTokens(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to login", nil)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "refreshToken is required", nil)
		return
	}

	claims, err := auth.VerifyRefreshJWT(req.RefreshToken)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), claims.Sub)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

func (h *Handler) me(c *gin.Context) {
	userID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"user": user})
}

type profileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Email != nil {
		if msg := validateEmail(*req.Email); msg != "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
			return
		}
	}
	if (req.FirstName != nil && len(*req.FirstName) > 100) || (req.LastName != nil && len(*req.LastName) > 100) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name must be at most 100 characters", nil)
		return
	}

	user, err := h.Svc.UpdateProfile(c.Request.Context(), userID, ProfilePatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"user": user})
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	userID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var req passwordRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}

	if err := h.Svc.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid current password", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to change password", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "password updated"})
}

// requireAccount rejects guest sessions; account endpoints need a login.
func (h *Handler) requireAccount(c *gin.Context) (string, bool) {
	if middleware.IsGuestFromContext(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "login required", nil)
		return "", false
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
		return "", false
	}
	return userID, true
}

func (h *Handler) respondWithTokens(c *gin.Context, status int, user User) {
	claims := auth.Claims{Sub: user.ID, Email: user.Email, Name: displayName(user)}
	token, err := auth.SignJWT(claims)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	refresh, err := auth.SignRefreshJWT(auth.Claims{Sub: user.ID})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, status, gin.H{
		"user":         user,
		"token":        token,
		"refreshToken": refresh,
	})
}

func displayName(user User) string {
	return strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
}

func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "email is required"
	}
	if len(email) > 254 {
		return "email must be at most 254 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "email must be a valid address"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(password) > 128 {
		return "password must be at most 128 characters"
	}
	return ""
}
