package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

type StatusTransitionRepo interface {
	// Create inserts an edge; an existing (from, to) pair is left untouched.
	Create(ctx context.Context, tx *gorm.DB, transition *types.StatusTransition) error
	ListFrom(ctx context.Context, tx *gorm.DB, fromStatusID uuid.UUID) ([]*types.StatusTransition, error)
	Exists(ctx context.Context, tx *gorm.DB, fromStatusID, toStatusID uuid.UUID) (bool, error)
}

type statusTransitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusTransitionRepo(db *gorm.DB, baseLog *logger.Logger) StatusTransitionRepo {
	return &statusTransitionRepo{db: db, log: baseLog.With("repo", "StatusTransitionRepo")}
}

func (r *statusTransitionRepo) Create(ctx context.Context, tx *gorm.DB, transition *types.StatusTransition) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(transition).Error
}

// ListFrom returns outgoing edges in insertion order, eager-loading the
// target status.
func (r *statusTransitionRepo) ListFrom(ctx context.Context, tx *gorm.DB, fromStatusID uuid.UUID) ([]*types.StatusTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StatusTransition
	if err := transaction.WithContext(ctx).
		Preload("ToStatus").
		Where("from_status_id = ?", fromStatusID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *statusTransitionRepo) Exists(ctx context.Context, tx *gorm.DB, fromStatusID, toStatusID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StatusTransition{}).
		Where("from_status_id = ? AND to_status_id = ?", fromStatusID, toStatusID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
