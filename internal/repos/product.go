package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

// ProductFilter narrows ListProducts. Zero values mean no constraint.
type ProductFilter struct {
	StatusID   uuid.UUID
	CategoryID uuid.UUID
	Priority   string
}

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	// GetByIDForUpdate locks the product row for the duration of tx so
	// concurrent commands on the same product serialize.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	GetBySerialNumber(ctx context.Context, tx *gorm.DB, sn string) (*types.Product, error)
	List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// LocationHolder returns the id of the non-removed product holding the
	// location, excluding excludeID. uuid.Nil when the location is free.
	LocationHolder(ctx context.Context, tx *gorm.DB, locationID uuid.UUID, excludeID uuid.UUID) (uuid.UUID, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var product types.Product
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == uuid.Nil {
		return nil, nil
	}
	return &product, nil
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx)
	// SQLite has no row locks; its writes serialize on the database handle.
	if transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product types.Product
	err := q.
		Where("id = ?", id).
		Limit(1).
		Find(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == uuid.Nil {
		return nil, nil
	}
	return &product, nil
}

func (r *productRepo) GetBySerialNumber(ctx context.Context, tx *gorm.DB, sn string) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var product types.Product
	err := transaction.WithContext(ctx).
		Preload("Category").
		Preload("CurrentStatus").
		Preload("CurrentTask").
		Preload("Location").
		Where("serial_number = ? AND removed = ?", sn, false).
		Limit(1).
		Find(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == uuid.Nil {
		return nil, nil
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Category").
		Preload("CurrentStatus").
		Preload("CurrentTask").
		Preload("Location").
		Where("removed = ?", false).
		Order("created_at ASC")
	if filter.StatusID != uuid.Nil {
		q = q.Where("current_status_id = ?", filter.StatusID)
	}
	if filter.CategoryID != uuid.Nil {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	var results []*types.Product
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *productRepo) LocationHolder(ctx context.Context, tx *gorm.DB, locationID uuid.UUID, excludeID uuid.UUID) (uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var holder types.Product
	err := transaction.WithContext(ctx).
		Select("id").
		Where("location_id = ? AND removed = ? AND id <> ?", locationID, false, excludeID).
		Limit(1).
		Find(&holder).Error
	if err != nil {
		return uuid.Nil, err
	}
	return holder.ID, nil
}
