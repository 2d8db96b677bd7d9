package handlers

import (
	"errors"
	"net/http"

	"glowbook/middleware"
	"glowbook/services/catalog"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the service catalog endpoints.
type CatalogHandler struct {
	Svc catalog.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Svc: svc}
}

// CreateService handles POST /api/services.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in catalog.CreateServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	svc, err := h.Svc.CreateService(c.Request.Context(), principal.ID, in)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

// ListProviderServices handles GET /api/services/provider/:providerId.
// Public listing; only active entries are returned.
func (h *CatalogHandler) ListProviderServices(c *gin.Context) {
	services, err := h.Svc.ListProviderServices(c.Request.Context(), c.Param("providerId"), false)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(services), "services": services})
}

// ListMyServices handles GET /api/services/mine for the owning provider,
// inactive entries included.
func (h *CatalogHandler) ListMyServices(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	services, err := h.Svc.ListProviderServices(c.Request.Context(), principal.ID, true)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(services), "services": services})
}

// UpdateService handles PUT /api/services/:id.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in catalog.UpdateServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	svc, err := h.Svc.UpdateService(c.Request.Context(), principal.ID, c.Param("id"), in)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

// SetServiceActive handles PUT /api/services/:id/active.
func (h *CatalogHandler) SetServiceActive(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	svc, err := h.Svc.SetActive(c.Request.Context(), principal.ID, c.Param("id"), *in.Active)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, "invalid service", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "service not found", "")
	case errors.Is(err, catalog.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "you do not own this service", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
