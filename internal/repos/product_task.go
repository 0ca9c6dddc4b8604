package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

// taskOrder is the engine's one deterministic total order over a product's
// task instances: predefined rows first by template position, ad-hoc rows
// after them by creation time.
const taskOrder = "is_predefined DESC, position ASC, created_at ASC"

type ProductTaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ProductTask) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductTask, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductTask, error)
	ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, activeOnly bool) ([]*types.ProductTask, error)
	// FirstActive returns the product's next task instance per the defined
	// order, or nil when no active instance exists.
	FirstActive(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.ProductTask, error)
	HasActive(ctx context.Context, tx *gorm.DB, productID, taskID uuid.UUID) (bool, error)
	// CountActiveBlocking counts active instances whose template forbids
	// skipping; these gate status changes.
	CountActiveBlocking(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int64, error)
	CountFinalized(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.ProductTask) error
}

type productTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductTaskRepo(db *gorm.DB, baseLog *logger.Logger) ProductTaskRepo {
	return &productTaskRepo{db: db, log: baseLog.With("repo", "ProductTaskRepo")}
}

func (r *productTaskRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProductTask) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *productTaskRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.ProductTask
	err := transaction.WithContext(ctx).
		Preload("Task").
		Where("id = ?", id).
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

func (r *productTaskRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx)
	if transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.ProductTask
	err := q.
		Where("id = ?", id).
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

func (r *productTaskRepo) ListByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, activeOnly bool) ([]*types.ProductTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Task").
		Where("product_id = ?", productID).
		Order(taskOrder)
	if activeOnly {
		q = q.Where("is_completed = ? AND is_skipped = ?", false, false)
	}
	var results []*types.ProductTask
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productTaskRepo) FirstActive(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.ProductTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.ProductTask
	err := transaction.WithContext(ctx).
		Where("product_id = ? AND is_completed = ? AND is_skipped = ?", productID, false, false).
		Order(taskOrder).
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

func (r *productTaskRepo) HasActive(ctx context.Context, tx *gorm.DB, productID, taskID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProductTask{}).
		Where("product_id = ? AND task_id = ? AND is_completed = ? AND is_skipped = ?", productID, taskID, false, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productTaskRepo) CountActiveBlocking(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.ProductTask{}).
		Joins("JOIN task ON task.id = product_task.task_id").
		Where("product_task.product_id = ? AND product_task.is_completed = ? AND product_task.is_skipped = ? AND task.skippable = ?",
			productID, false, false, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productTaskRepo) CountFinalized(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.ProductTask{}).
		Where("product_id = ? AND (is_completed = ? OR is_skipped = ?)", productID, true, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productTaskRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ProductTask) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Omit(clause.Associations).
		Save(row).Error
}
