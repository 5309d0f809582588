package migration

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// Handler exposes the guest import endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches migration routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/import-guest", h.importGuest)
}

type importRequest struct {
	GuestID string `json:"guestId"`
}

func (h *Handler) importGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if middleware.IsGuestFromContext(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "login required", nil)
		return
	}
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	var req importRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	guestID := strings.TrimSpace(req.GuestID)
	if guestID == "" {
		guestID = strings.TrimSpace(c.GetHeader("X-Guest-Id"))
	}
	if guestID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "guestId is required", []map[string]string{
			{"field": "guestId", "issue": "required"},
		})
		return
	}

	migrated, failed, err := h.Svc.Run(c.Request.Context(), guestID, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import guest data", nil)
		return
	}
	respond.JSON(c, http.StatusOK, Result{Migrated: migrated, Failed: failed})
}
