package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

type StatusTaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, statusTask *types.StatusTask) error
	ListByStatus(ctx context.Context, tx *gorm.DB, statusID uuid.UUID, predefinedOnly bool) ([]*types.StatusTask, error)
	ListByStatuses(ctx context.Context, tx *gorm.DB, statusIDs []uuid.UUID) ([]*types.StatusTask, error)
	Get(ctx context.Context, tx *gorm.DB, statusID, taskID uuid.UUID) (*types.StatusTask, error)
	MaxPosition(ctx context.Context, tx *gorm.DB, statusID uuid.UUID) (int, error)
	// ShiftPositions adds delta to every row of the status at or after
	// fromPosition. Used to open or close a slot during insert/remove.
	ShiftPositions(ctx context.Context, tx *gorm.DB, statusID uuid.UUID, fromPosition, delta int) error
	Delete(ctx context.Context, tx *gorm.DB, statusID, taskID uuid.UUID) error
}

type statusTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusTaskRepo(db *gorm.DB, baseLog *logger.Logger) StatusTaskRepo {
	return &statusTaskRepo{db: db, log: baseLog.With("repo", "StatusTaskRepo")}
}

func (r *statusTaskRepo) Create(ctx context.Context, tx *gorm.DB, statusTask *types.StatusTask) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(statusTask).Error
}

func (r *statusTaskRepo) ListByStatus(ctx context.Context, tx *gorm.DB, statusID uuid.UUID, predefinedOnly bool) ([]*types.StatusTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Task").
		Where("status_id = ?", statusID).
		Order("position ASC, created_at ASC")
	if predefinedOnly {
		q = q.Where("is_predefined = ?", true)
	}
	var results []*types.StatusTask
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *statusTaskRepo) ListByStatuses(ctx context.Context, tx *gorm.DB, statusIDs []uuid.UUID) ([]*types.StatusTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StatusTask
	if len(statusIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("status_id IN ?", statusIDs).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *statusTaskRepo) Get(ctx context.Context, tx *gorm.DB, statusID, taskID uuid.UUID) (*types.StatusTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.StatusTask
	err := transaction.WithContext(ctx).
		Where("status_id = ? AND task_id = ?", statusID, taskID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *statusTaskRepo) MaxPosition(ctx context.Context, tx *gorm.DB, statusID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max int
	err := transaction.WithContext(ctx).
		Model(&types.StatusTask{}).
		Where("status_id = ?", statusID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *statusTaskRepo) ShiftPositions(ctx context.Context, tx *gorm.DB, statusID uuid.UUID, fromPosition, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.StatusTask{}).
		Where("status_id = ? AND position >= ?", statusID, fromPosition).
		Update("position", gorm.Expr("position + ?", delta)).Error
}

func (r *statusTaskRepo) Delete(ctx context.Context, tx *gorm.DB, statusID, taskID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("status_id = ? AND task_id = ?", statusID, taskID).
		Delete(&types.StatusTask{}).Error
}
