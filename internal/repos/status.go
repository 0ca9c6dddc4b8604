package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

type StatusRepo interface {
	Create(ctx context.Context, tx *gorm.DB, status *types.Status) (*types.Status, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Status, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Status, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, tx *gorm.DB) ([]*types.Status, error)
}

type statusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusRepo(db *gorm.DB, baseLog *logger.Logger) StatusRepo {
	return &statusRepo{db: db, log: baseLog.With("repo", "StatusRepo")}
}

func (r *statusRepo) Create(ctx context.Context, tx *gorm.DB, status *types.Status) (*types.Status, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

func (r *statusRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Status, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var status types.Status
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&status).Error
	if err != nil {
		return nil, err
	}
	if status.ID == uuid.Nil {
		return nil, nil
	}
	return &status, nil
}

func (r *statusRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Status, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var status types.Status
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&status).Error
	if err != nil {
		return nil, err
	}
	if status.ID == uuid.Nil {
		return nil, nil
	}
	return &status, nil
}

func (r *statusRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Status{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *statusRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Status, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Status
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
