package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/services"
)

type TaskHandler struct {
	log         *logger.Logger
	taskService services.TaskService
}

func NewTaskHandler(log *logger.Logger, tsvc services.TaskService) *TaskHandler {
	return &TaskHandler{
		log:         log.With("handler", "TaskHandler"),
		taskService: tsvc,
	}
}

type createTaskRequest struct {
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
	Note        string `json:"note"`
	Skippable   bool   `json:"skippable"`
}

// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), req.Action, req.Description, req.Note, req.Skippable)
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondCreated(c, task)
}

// GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		RespondEngineError(c, err)
		return
	}
	RespondOK(c, tasks)
}
