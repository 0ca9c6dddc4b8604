package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/types"
	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

// TaskService owns the template registry: reusable task definitions and the
// ordered per-status lists of predefined tasks.
type TaskService interface {
	CreateTask(ctx context.Context, action, description, note string, skippable bool) (*types.Task, error)
	ListTasks(ctx context.Context) ([]*types.Task, error)
	// OrderedTasksFor lists a status's template rows by position.
	OrderedTasksFor(ctx context.Context, statusID uuid.UUID, predefinedOnly bool) ([]*types.StatusTask, error)
	// InsertTaskAtPosition places a task into a status's list at a 1-based
	// position, renumbering the rest of the list in the same transaction.
	// finalizedCount is the consuming product's count of completed/skipped
	// tasks; a position at or before it conflicts with finalized work.
	// Position 0 appends to the end.
	InsertTaskAtPosition(ctx context.Context, statusID, taskID uuid.UUID, position int, predefined bool, finalizedCount int) (*types.StatusTask, error)
	// RemoveStatusTask deletes the join row and closes the position gap.
	RemoveStatusTask(ctx context.Context, statusID, taskID uuid.UUID) error
}

type taskService struct {
	db             *gorm.DB
	log            *logger.Logger
	taskRepo       repos.TaskRepo
	statusRepo     repos.StatusRepo
	statusTaskRepo repos.StatusTaskRepo
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	taskRepo repos.TaskRepo,
	statusRepo repos.StatusRepo,
	statusTaskRepo repos.StatusTaskRepo,
) TaskService {
	return &taskService{
		db:             db,
		log:            baseLog.With("service", "TaskService"),
		taskRepo:       taskRepo,
		statusRepo:     statusRepo,
		statusTaskRepo: statusTaskRepo,
	}
}

func (ts *taskService) CreateTask(ctx context.Context, action, description, note string, skippable bool) (*types.Task, error) {
	if action == "" {
		return nil, &workflow.ValidationError{Field: "action", Value: action, Rule: "must not be empty"}
	}
	now := time.Now()
	task := &types.Task{
		ID:          uuid.New(),
		Action:      action,
		Description: description,
		Note:        note,
		Skippable:   skippable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ts.taskRepo.Create(ctx, nil, task); err != nil {
		ts.log.Error("CreateTask failed", "action", action, "error", err)
		return nil, fmt.Errorf("create task: %w", err)
	}
	ts.log.Info("CreateTask", "task_id", task.ID, "action", action, "skippable", skippable)
	return task, nil
}

func (ts *taskService) ListTasks(ctx context.Context) ([]*types.Task, error) {
	return ts.taskRepo.List(ctx, nil)
}

func (ts *taskService) OrderedTasksFor(ctx context.Context, statusID uuid.UUID, predefinedOnly bool) ([]*types.StatusTask, error) {
	return ts.statusTaskRepo.ListByStatus(ctx, nil, statusID, predefinedOnly)
}

func (ts *taskService) InsertTaskAtPosition(ctx context.Context, statusID, taskID uuid.UUID, position int, predefined bool, finalizedCount int) (*types.StatusTask, error) {
	status, err := ts.statusRepo.GetByID(ctx, nil, statusID)
	if err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	if status == nil {
		return nil, &workflow.NotFoundError{Entity: "status", Key: statusID.String()}
	}
	task, err := ts.taskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return nil, &workflow.NotFoundError{Entity: "task", Key: taskID.String()}
	}

	var created *types.StatusTask
	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		max, err := ts.statusTaskRepo.MaxPosition(ctx, tx, statusID)
		if err != nil {
			return fmt.Errorf("max position: %w", err)
		}
		target := position
		if target == 0 || target > max+1 {
			target = max + 1
		}
		if target <= finalizedCount {
			return &workflow.PositionConflictError{StatusID: statusID, Position: target, FinalizedCount: finalizedCount}
		}
		if target <= max {
			if err := ts.statusTaskRepo.ShiftPositions(ctx, tx, statusID, target, 1); err != nil {
				return fmt.Errorf("shift positions: %w", err)
			}
		}
		created = &types.StatusTask{
			ID:           uuid.New(),
			StatusID:     statusID,
			TaskID:       taskID,
			IsPredefined: predefined,
			Position:     target,
			CreatedAt:    time.Now(),
		}
		if err := ts.statusTaskRepo.Create(ctx, tx, created); err != nil {
			return fmt.Errorf("create status task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ts.log.Info("InsertTaskAtPosition", "status_id", statusID, "task_id", taskID, "position", created.Position)
	return created, nil
}

func (ts *taskService) RemoveStatusTask(ctx context.Context, statusID, taskID uuid.UUID) error {
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ts.statusTaskRepo.Get(ctx, tx, statusID, taskID)
		if err != nil {
			return fmt.Errorf("load status task: %w", err)
		}
		if row == nil {
			return &workflow.NotFoundError{Entity: "status task", Key: fmt.Sprintf("%s/%s", statusID, taskID)}
		}
		if err := ts.statusTaskRepo.Delete(ctx, tx, statusID, taskID); err != nil {
			return fmt.Errorf("delete status task: %w", err)
		}
		if err := ts.statusTaskRepo.ShiftPositions(ctx, tx, statusID, row.Position+1, -1); err != nil {
			return fmt.Errorf("close position gap: %w", err)
		}
		return nil
	})
}
