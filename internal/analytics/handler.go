package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/applications"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// Handler serves aggregate stats over the caller's applications.
type Handler struct {
	Apps *applications.Service
}

// NewHandler constructs a Handler.
func NewHandler(apps *applications.Service) *Handler {
	return &Handler{Apps: apps}
}

// RegisterRoutes attaches analytics routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)

	stats, err := h.Apps.Stats(c.Request.Context(), p)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}
	respond.JSON(c, http.StatusOK, stats)
}
