package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/services"
)

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, csvc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:            log.With("handler", "CatalogHandler"),
		catalogService: csvc,
	}
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, category)
}

// GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, categories)
}

type generateRackRequest struct {
	Rack           string `json:"rack" binding:"required"`
	Layers         int    `json:"layers" binding:"required"`
	SpacesPerLayer int    `json:"spaces_per_layer" binding:"required"`
}

// POST /api/racks
func (h *CatalogHandler) GenerateRack(c *gin.Context) {
	var req generateRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	locations, err := h.catalogService.GenerateRack(c.Request.Context(), req.Rack, req.Layers, req.SpacesPerLayer)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, locations)
}

// GET /api/locations?rack=
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context(), c.Query("rack"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, locations)
}
