package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

type ProductStatusRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ProductStatus) error
	ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductStatus, error)
}

type productStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductStatusRepo(db *gorm.DB, baseLog *logger.Logger) ProductStatusRepo {
	return &productStatusRepo{db: db, log: baseLog.With("repo", "ProductStatusRepo")}
}

func (r *productStatusRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ProductStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *productStatusRepo) ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProductStatus
	if err := transaction.WithContext(ctx).
		Preload("Status").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
