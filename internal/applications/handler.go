package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.POST("/applications", h.create)
	rg.GET("/applications/:id", h.get)
	rg.PUT("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)

	apps, err := h.Svc.List(c.Request.Context(), p)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	if apps == nil {
		apps = []Application{}
	}
	respond.JSON(c, http.StatusOK, apps)
}

func (h *Handler) get(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	id := c.Param("id")
	c.Set("applicationId", id)

	app, err := h.Svc.Get(c.Request.Context(), p, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch application", nil)
		return
	}
	respond.JSON(c, http.StatusOK, app)
}

func (h *Handler) create(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)

	in, ferrs := DecodeCreate(c.Request.Body)
	if len(ferrs) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application payload", ferrs)
		return
	}

	app, err := h.Svc.Create(c.Request.Context(), p, in)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create application", nil)
		return
	}
	c.Set("applicationId", app.ID)
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) update(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	id := c.Param("id")
	c.Set("applicationId", id)

	patch, ferrs := DecodeUpdate(c.Request.Body)
	if len(ferrs) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application payload", ferrs)
		return
	}

	app, err := h.Svc.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update application", nil)
		return
	}
	respond.JSON(c, http.StatusOK, app)
}

func (h *Handler) remove(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	id := c.Param("id")
	c.Set("applicationId", id)

	if err := h.Svc.Delete(c.Request.Context(), p, id); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete application", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
