package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

type LocationRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, locations []*types.Location) error
	GetOrCreate(ctx context.Context, tx *gorm.DB, rack string, layer, space int) (*types.Location, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error)
	List(ctx context.Context, tx *gorm.DB, rack string) ([]*types.Location, error)
}

type locationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationRepo(db *gorm.DB, baseLog *logger.Logger) LocationRepo {
	return &locationRepo{db: db, log: baseLog.With("repo", "LocationRepo")}
}

// CreateBatch inserts grid cells, silently keeping any that already exist.
func (r *locationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, locations []*types.Location) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(locations) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&locations).Error
}

func (r *locationRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, rack string, layer, space int) (*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var location types.Location
	err := transaction.WithContext(ctx).
		Where("rack = ? AND layer = ? AND space = ?", rack, layer, space).
		Limit(1).
		Find(&location).Error
	if err != nil {
		return nil, err
	}
	if location.ID != uuid.Nil {
		return &location, nil
	}
	location = types.Location{
		ID:        uuid.New(),
		Rack:      rack,
		Layer:     layer,
		Space:     space,
		CreatedAt: time.Now(),
	}
	if err := transaction.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var location types.Location
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&location).Error
	if err != nil {
		return nil, err
	}
	if location.ID == uuid.Nil {
		return nil, nil
	}
	return &location, nil
}

func (r *locationRepo) List(ctx context.Context, tx *gorm.DB, rack string) ([]*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Order("rack ASC, layer ASC, space ASC")
	if rack != "" {
		q = q.Where("rack = ?", rack)
	}
	var results []*types.Location
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
