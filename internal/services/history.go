package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

// TaskSummary is one task instance line inside a history entry.
type TaskSummary struct {
	ProductTaskID uuid.UUID `json:"product_task_id"`
	Action        string    `json:"action"`
	Result        string    `json:"result"`
	Note          string    `json:"note"`
	IsCompleted   bool      `json:"is_completed"`
	IsSkipped     bool      `json:"is_skipped"`
}

// StatusHistoryEntry is one visited status with the product's task activity
// that belongs to that status's template set.
type StatusHistoryEntry struct {
	StatusID   uuid.UUID     `json:"status_id"`
	StatusName string        `json:"status_name"`
	IsClosed   bool          `json:"is_closed"`
	EnteredAt  time.Time     `json:"entered_at"`
	Tasks      []TaskSummary `json:"tasks"`
}

// HistoryService is a pure projection over the two ledgers; it never
// mutates anything.
type HistoryService interface {
	StatusHistory(ctx context.Context, productID uuid.UUID) ([]StatusHistoryEntry, error)
}

type historyService struct {
	db                *gorm.DB
	log               *logger.Logger
	productRepo       repos.ProductRepo
	productStatusRepo repos.ProductStatusRepo
	productTaskRepo   repos.ProductTaskRepo
	statusTaskRepo    repos.StatusTaskRepo
}

func NewHistoryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	productRepo repos.ProductRepo,
	productStatusRepo repos.ProductStatusRepo,
	productTaskRepo repos.ProductTaskRepo,
	statusTaskRepo repos.StatusTaskRepo,
) HistoryService {
	return &historyService{
		db:                db,
		log:               baseLog.With("service", "HistoryService"),
		productRepo:       productRepo,
		productStatusRepo: productStatusRepo,
		productTaskRepo:   productTaskRepo,
		statusTaskRepo:    statusTaskRepo,
	}
}

func (hs *historyService) StatusHistory(ctx context.Context, productID uuid.UUID) ([]StatusHistoryEntry, error) {
	product, err := hs.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, &workflow.NotFoundError{Entity: "product", Key: productID.String()}
	}

	history, err := hs.productStatusRepo.ListByProduct(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	instances, err := hs.productTaskRepo.ListByProduct(ctx, nil, productID, false)
	if err != nil {
		return nil, fmt.Errorf("load task instances: %w", err)
	}

	statusIDs := make([]uuid.UUID, 0, len(history))
	for _, row := range history {
		statusIDs = append(statusIDs, row.StatusID)
	}
	templates, err := hs.statusTaskRepo.ListByStatuses(ctx, nil, statusIDs)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	// status id -> set of template task ids
	templateTasks := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, tpl := range templates {
		if templateTasks[tpl.StatusID] == nil {
			templateTasks[tpl.StatusID] = make(map[uuid.UUID]bool)
		}
		templateTasks[tpl.StatusID][tpl.TaskID] = true
	}

	entries := make([]StatusHistoryEntry, 0, len(history))
	for _, row := range history {
		if row.Status == nil {
			return nil, &workflow.NotFoundError{Entity: "status", Key: row.StatusID.String()}
		}
		entry := StatusHistoryEntry{
			StatusID:   row.StatusID,
			StatusName: row.Status.Name,
			IsClosed:   row.Status.IsClosed,
			EnteredAt:  row.CreatedAt,
			Tasks:      []TaskSummary{},
		}
		members := templateTasks[row.StatusID]
		for _, inst := range instances {
			if members == nil || !members[inst.TaskID] {
				continue
			}
			if inst.Task == nil {
				return nil, &workflow.NotFoundError{Entity: "task", Key: inst.TaskID.String()}
			}
			entry.Tasks = append(entry.Tasks, TaskSummary{
				ProductTaskID: inst.ID,
				Action:        inst.Task.Action,
				Result:        inst.Result,
				Note:          inst.Note,
				IsCompleted:   inst.IsCompleted,
				IsSkipped:     inst.IsSkipped,
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
