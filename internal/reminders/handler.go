package reminders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/applications"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches reminder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reminders", h.due)
	rg.POST("/reminders/:id/acknowledge", h.acknowledge)
}

func (h *Handler) due(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)

	due, err := h.Svc.Due(c.Request.Context(), p)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to evaluate reminders", nil)
		return
	}
	respond.JSON(c, http.StatusOK, due)
}

func (h *Handler) acknowledge(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	id := c.Param("id")
	c.Set("applicationId", id)

	app, err := h.Svc.Acknowledge(c.Request.Context(), p, id)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to acknowledge reminder", nil)
		return
	}
	respond.JSON(c, http.StatusOK, app)
}
