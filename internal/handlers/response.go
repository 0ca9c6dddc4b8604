package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondEngineError translates the engine's typed failures into HTTP
// statuses. Anything unrecognized is treated as a storage-level error the
// caller may retry as a whole operation.
func RespondEngineError(c *gin.Context, err error) {
	var (
		invalidSN     *workflow.InvalidSerialNumberError
		invalidTrans  *workflow.InvalidTransitionError
		incomplete    *workflow.IncompleteTasksError
		finalized     *workflow.AlreadyFinalizedError
		notSkippable  *workflow.NotSkippableError
		occupied      *workflow.LocationOccupiedError
		positionClash *workflow.PositionConflictError
		notFound      *workflow.NotFoundError
		invalidField  *workflow.ValidationError
	)
	switch {
	case errors.As(err, &invalidSN):
		RespondError(c, http.StatusBadRequest, "invalid_serial_number", err)
	case errors.As(err, &invalidTrans):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.As(err, &incomplete):
		RespondError(c, http.StatusConflict, "incomplete_tasks", err)
	case errors.As(err, &finalized):
		RespondError(c, http.StatusConflict, "already_finalized", err)
	case errors.As(err, &notSkippable):
		RespondError(c, http.StatusConflict, "not_skippable", err)
	case errors.As(err, &occupied):
		RespondError(c, http.StatusConflict, "location_occupied", err)
	case errors.As(err, &positionClash):
		RespondError(c, http.StatusConflict, "position_conflict", err)
	case errors.As(err, &notFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &invalidField):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
