package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/services"
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
	historyService services.HistoryService
}

func NewProductHandler(log *logger.Logger, psvc services.ProductService, hsvc services.HistoryService) *ProductHandler {
	return &ProductHandler{
		log:            log.With("handler", "ProductHandler"),
		productService: psvc,
		historyService: hsvc,
	}
}

type createProductRequest struct {
	SerialNumber string     `json:"serial_number" binding:"required"`
	CategoryID   uuid.UUID  `json:"category_id" binding:"required"`
	Priority     string     `json:"priority"`
	Description  string     `json:"description"`
	StatusID     *uuid.UUID `json:"status_id"`
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), services.CreateProductInput{
		SerialNumber: req.SerialNumber,
		CategoryID:   req.CategoryID,
		Priority:     req.Priority,
		Description:  req.Description,
		StatusID:     req.StatusID,
	})
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, product)
}

// GET /api/products?status_id=&category_id=&priority=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filter repos.ProductFilter
	if raw := c.Query("status_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		filter.StatusID = id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		filter.CategoryID = id
	}
	filter.Priority = c.Query("priority")
	products, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, products)
}

// GET /api/products/:sn
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, product)
}

// DELETE /api/products/:sn
func (h *ProductHandler) RemoveProduct(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	if err := h.productService.RemoveProduct(c.Request.Context(), product.ID); err != nil {
		RespondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changeStatusRequest struct {
	StatusID uuid.UUID `json:"status_id" binding:"required"`
}

// POST /api/products/:sn/status
func (h *ProductHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	updated, err := h.productService.ChangeStatus(c.Request.Context(), product.ID, req.StatusID)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, updated)
}

// GET /api/products/:sn/next-statuses
func (h *ProductHandler) NextStatuses(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	statuses, err := h.productService.PossibleNextStatuses(c.Request.Context(), product.ID)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, statuses)
}

// GET /api/products/:sn/tasks?active=true
func (h *ProductHandler) ListTasks(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	activeOnly := c.Query("active") == "true"
	tasks, err := h.productService.ListProductTasks(c.Request.Context(), product.ID, activeOnly)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, tasks)
}

// GET /api/products/:sn/history
func (h *ProductHandler) StatusHistory(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	history, err := h.historyService.StatusHistory(c.Request.Context(), product.ID)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, history)
}

type assignAdHocTaskRequest struct {
	TaskID               uuid.UUID `json:"task_id" binding:"required"`
	AsPredefinedTemplate bool      `json:"as_predefined_template"`
}

// POST /api/products/:sn/tasks
func (h *ProductHandler) AssignAdHocTask(c *gin.Context) {
	var req assignAdHocTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	row, err := h.productService.AssignAdHocTask(c.Request.Context(), product.ID, req.TaskID, req.AsPredefinedTemplate)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, row)
}

type assignLocationRequest struct {
	Rack  string `json:"rack" binding:"required"`
	Layer int    `json:"layer" binding:"required"`
	Space int    `json:"space" binding:"required"`
}

// POST /api/products/:sn/location
func (h *ProductHandler) AssignLocation(c *gin.Context) {
	var req assignLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	updated, err := h.productService.AssignLocation(c.Request.Context(), product.ID, req.Rack, req.Layer, req.Space)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, updated)
}

// DELETE /api/products/:sn/location
func (h *ProductHandler) ReleaseLocation(c *gin.Context) {
	product, err := h.productService.GetBySerialNumber(c.Request.Context(), c.Param("sn"))
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	updated, err := h.productService.ReleaseLocation(c.Request.Context(), product.ID)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, updated)
}

type completeTaskRequest struct {
	Result string `json:"result"`
	Note   string `json:"note"`
}

// POST /api/product-tasks/:id/complete
func (h *ProductHandler) CompleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.productService.CompleteTask(c.Request.Context(), id, req.Result, req.Note)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, row)
}

// POST /api/product-tasks/:id/skip
func (h *ProductHandler) SkipTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.productService.SkipTask(c.Request.Context(), id)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, row)
}
