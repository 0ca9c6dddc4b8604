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

// StatusService owns the status graph: the nodes and the directed edges that
// define which status may follow which.
type StatusService interface {
	CreateStatus(ctx context.Context, name, description string, isClosed bool) (*types.Status, error)
	// UpdateStatus edits description and the closed flag. The name stays
	// immutable once the status exists so history rows keep their meaning.
	UpdateStatus(ctx context.Context, id uuid.UUID, description string, isClosed bool) (*types.Status, error)
	ListStatuses(ctx context.Context) ([]*types.Status, error)
	// AddTransition inserts the edge from→to. Duplicate edges collapse to
	// the original; self-loops are rejected.
	AddTransition(ctx context.Context, fromStatusID, toStatusID uuid.UUID) error
	// PossibleNextStatuses returns the statuses reachable from the given
	// one, in edge insertion order.
	PossibleNextStatuses(ctx context.Context, statusID uuid.UUID) ([]*types.Status, error)
}

type statusService struct {
	db             *gorm.DB
	log            *logger.Logger
	statusRepo     repos.StatusRepo
	transitionRepo repos.StatusTransitionRepo
}

func NewStatusService(
	db *gorm.DB,
	baseLog *logger.Logger,
	statusRepo repos.StatusRepo,
	transitionRepo repos.StatusTransitionRepo,
) StatusService {
	return &statusService{
		db:             db,
		log:            baseLog.With("service", "StatusService"),
		statusRepo:     statusRepo,
		transitionRepo: transitionRepo,
	}
}

func (ss *statusService) CreateStatus(ctx context.Context, name, description string, isClosed bool) (*types.Status, error) {
	if name == "" {
		return nil, &workflow.ValidationError{Field: "name", Value: name, Rule: "must not be empty"}
	}
	existing, err := ss.statusRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, fmt.Errorf("check status: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	status := &types.Status{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsClosed:    isClosed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ss.statusRepo.Create(ctx, nil, status); err != nil {
		ss.log.Error("CreateStatus failed", "name", name, "error", err)
		return nil, fmt.Errorf("create status: %w", err)
	}
	ss.log.Info("CreateStatus", "status_id", status.ID, "name", name, "is_closed", isClosed)
	return status, nil
}

func (ss *statusService) UpdateStatus(ctx context.Context, id uuid.UUID, description string, isClosed bool) (*types.Status, error) {
	status, err := ss.statusRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	if status == nil {
		return nil, &workflow.NotFoundError{Entity: "status", Key: id.String()}
	}
	fields := map[string]interface{}{
		"description": description,
		"is_closed":   isClosed,
		"updated_at":  time.Now(),
	}
	if err := ss.statusRepo.Update(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	status.Description = description
	status.IsClosed = isClosed
	return status, nil
}

func (ss *statusService) ListStatuses(ctx context.Context) ([]*types.Status, error) {
	return ss.statusRepo.List(ctx, nil)
}

func (ss *statusService) AddTransition(ctx context.Context, fromStatusID, toStatusID uuid.UUID) error {
	if fromStatusID == toStatusID {
		return &workflow.ValidationError{Field: "to_status", Value: toStatusID.String(), Rule: "self-loop transitions are not allowed"}
	}
	for _, id := range []uuid.UUID{fromStatusID, toStatusID} {
		status, err := ss.statusRepo.GetByID(ctx, nil, id)
		if err != nil {
			return fmt.Errorf("load status: %w", err)
		}
		if status == nil {
			return &workflow.NotFoundError{Entity: "status", Key: id.String()}
		}
	}
	transition := &types.StatusTransition{
		ID:           uuid.New(),
		FromStatusID: fromStatusID,
		ToStatusID:   toStatusID,
		CreatedAt:    time.Now(),
	}
	if err := ss.transitionRepo.Create(ctx, nil, transition); err != nil {
		ss.log.Error("AddTransition failed", "from", fromStatusID, "to", toStatusID, "error", err)
		return fmt.Errorf("add transition: %w", err)
	}
	ss.log.Info("AddTransition", "from", fromStatusID, "to", toStatusID)
	return nil
}

func (ss *statusService) PossibleNextStatuses(ctx context.Context, statusID uuid.UUID) ([]*types.Status, error) {
	edges, err := ss.transitionRepo.ListFrom(ctx, nil, statusID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	out := make([]*types.Status, 0, len(edges))
	for _, edge := range edges {
		if edge.ToStatus != nil {
			out = append(out, edge.ToStatus)
		}
	}
	return out, nil
}
