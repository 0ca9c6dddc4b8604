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

type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*types.Category, error)
	ListCategories(ctx context.Context) ([]*types.Category, error)
	// GenerateRack pre-creates the full layer×space location grid for a
	// rack. Cells that already exist are kept as-is.
	GenerateRack(ctx context.Context, rack string, layers, spacesPerLayer int) ([]*types.Location, error)
	ListLocations(ctx context.Context, rack string) ([]*types.Location, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	locationRepo repos.LocationRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	categoryRepo repos.CategoryRepo,
	locationRepo repos.LocationRepo,
) CatalogService {
	return &catalogService{
		db:           db,
		log:          baseLog.With("service", "CatalogService"),
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

func (cs *catalogService) CreateCategory(ctx context.Context, name string) (*types.Category, error) {
	if name == "" {
		return nil, &workflow.ValidationError{Field: "name", Value: name, Rule: "must not be empty"}
	}
	existing, err := cs.categoryRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	category := &types.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := cs.categoryRepo.Create(ctx, nil, category); err != nil {
		cs.log.Error("CreateCategory failed", "name", name, "error", err)
		return nil, fmt.Errorf("create category: %w", err)
	}
	cs.log.Info("CreateCategory", "category_id", category.ID, "name", name)
	return category, nil
}

func (cs *catalogService) ListCategories(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.List(ctx, nil)
}

func (cs *catalogService) GenerateRack(ctx context.Context, rack string, layers, spacesPerLayer int) ([]*types.Location, error) {
	if rack == "" {
		return nil, &workflow.ValidationError{Field: "rack", Value: rack, Rule: "must not be empty"}
	}
	if layers < 1 || spacesPerLayer < 1 {
		return nil, &workflow.ValidationError{Field: "grid", Value: fmt.Sprintf("%dx%d", layers, spacesPerLayer), Rule: "layers and spaces must be at least 1"}
	}
	now := time.Now()
	cells := make([]*types.Location, 0, layers*spacesPerLayer)
	for layer := 1; layer <= layers; layer++ {
		for space := 1; space <= spacesPerLayer; space++ {
			cells = append(cells, &types.Location{
				ID:        uuid.New(),
				Rack:      rack,
				Layer:     layer,
				Space:     space,
				CreatedAt: now,
			})
		}
	}
	if err := cs.locationRepo.CreateBatch(ctx, nil, cells); err != nil {
		cs.log.Error("GenerateRack failed", "rack", rack, "error", err)
		return nil, fmt.Errorf("generate rack %s: %w", rack, err)
	}
	cs.log.Info("GenerateRack", "rack", rack, "layers", layers, "spaces_per_layer", spacesPerLayer)
	return cs.locationRepo.List(ctx, nil, rack)
}

func (cs *catalogService) ListLocations(ctx context.Context, rack string) ([]*types.Location, error) {
	return cs.locationRepo.List(ctx, nil, rack)
}
