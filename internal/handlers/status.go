package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/services"
)

type StatusHandler struct {
	log           *logger.Logger
	statusService services.StatusService
	taskService   services.TaskService
}

func NewStatusHandler(log *logger.Logger, ssvc services.StatusService, tsvc services.TaskService) *StatusHandler {
	return &StatusHandler{
		log:           log.With("handler", "StatusHandler"),
		statusService: ssvc,
		taskService:   tsvc,
	}
}

type createStatusRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsClosed    bool   `json:"is_closed"`
}

// POST /api/statuses
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := h.statusService.CreateStatus(c.Request.Context(), req.Name, req.Description, req.IsClosed)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, status)
}

// GET /api/statuses
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses(c.Request.Context())
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, statuses)
}

type updateStatusRequest struct {
	Description string `json:"description"`
	IsClosed    bool   `json:"is_closed"`
}

// PATCH /api/statuses/:id
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := h.statusService.UpdateStatus(c.Request.Context(), id, req.Description, req.IsClosed)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, status)
}

type addTransitionRequest struct {
	ToStatusID uuid.UUID `json:"to_status_id" binding:"required"`
}

// POST /api/statuses/:id/transitions
func (h *StatusHandler) AddTransition(c *gin.Context) {
	fromID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req addTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.statusService.AddTransition(c.Request.Context(), fromID, req.ToStatusID); err != nil {
		RespondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/statuses/:id/transitions
func (h *StatusHandler) ListTransitions(c *gin.Context) {
	fromID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	statuses, err := h.statusService.PossibleNextStatuses(c.Request.Context(), fromID)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, statuses)
}

type insertStatusTaskRequest struct {
	TaskID         uuid.UUID `json:"task_id" binding:"required"`
	Position       int       `json:"position"`
	Predefined     bool      `json:"predefined"`
	FinalizedCount int       `json:"finalized_count"`
}

// POST /api/statuses/:id/tasks
func (h *StatusHandler) InsertStatusTask(c *gin.Context) {
	statusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req insertStatusTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.taskService.InsertTaskAtPosition(c.Request.Context(), statusID, req.TaskID, req.Position, req.Predefined, req.FinalizedCount)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, row)
}

// GET /api/statuses/:id/tasks?predefined=true
func (h *StatusHandler) ListStatusTasks(c *gin.Context) {
	statusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.taskService.OrderedTasksFor(c.Request.Context(), statusID, c.Query("predefined") == "true")
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, rows)
}

// DELETE /api/statuses/:id/tasks/:taskID
func (h *StatusHandler) RemoveStatusTask(c *gin.Context) {
	statusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	taskID, err := uuid.Parse(c.Param("taskID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.taskService.RemoveStatusTask(c.Request.Context(), statusID, taskID); err != nil {
		RespondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
