package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/observability"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/types"
	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

// CreateProductInput carries the fields of a new product. StatusID is
// optional; when nil the default entry status is assigned (created on first
// use). Priority defaults to normal.
type CreateProductInput struct {
	SerialNumber string
	CategoryID   uuid.UUID
	Priority     string
	Description  string
	StatusID     *uuid.UUID
}

// ProductService is the product lifecycle controller. Every command runs as
// one transaction with the product row locked, so concurrent commands on the
// same product serialize while different products proceed in parallel.
type ProductService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*types.Product, error)
	ChangeStatus(ctx context.Context, productID, newStatusID uuid.UUID) (*types.Product, error)
	CompleteTask(ctx context.Context, productTaskID uuid.UUID, result, note string) (*types.ProductTask, error)
	SkipTask(ctx context.Context, productTaskID uuid.UUID) (*types.ProductTask, error)
	AssignAdHocTask(ctx context.Context, productID, taskID uuid.UUID, asPredefinedTemplate bool) (*types.ProductTask, error)
	AssignLocation(ctx context.Context, productID uuid.UUID, rack string, layer, space int) (*types.Product, error)
	ReleaseLocation(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	RemoveProduct(ctx context.Context, productID uuid.UUID) error
	// LocateCurrentTask recomputes and persists the current-task pointer,
	// returning the task the product should work on next (nil when none).
	LocateCurrentTask(ctx context.Context, productID uuid.UUID) (*types.Task, error)
	GetBySerialNumber(ctx context.Context, sn string) (*types.Product, error)
	ListProducts(ctx context.Context, filter repos.ProductFilter) ([]*types.Product, error)
	ListProductTasks(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.ProductTask, error)
	PossibleNextStatuses(ctx context.Context, productID uuid.UUID) ([]*types.Status, error)
}

type productService struct {
	db                *gorm.DB
	log               *logger.Logger
	metrics           *observability.Metrics
	productRepo       repos.ProductRepo
	productTaskRepo   repos.ProductTaskRepo
	productStatusRepo repos.ProductStatusRepo
	statusRepo        repos.StatusRepo
	statusTaskRepo    repos.StatusTaskRepo
	transitionRepo    repos.StatusTransitionRepo
	taskRepo          repos.TaskRepo
	categoryRepo      repos.CategoryRepo
	locationRepo      repos.LocationRepo
}

func NewProductService(
	db *gorm.DB,
	baseLog *logger.Logger,
	metrics *observability.Metrics,
	productRepo repos.ProductRepo,
	productTaskRepo repos.ProductTaskRepo,
	productStatusRepo repos.ProductStatusRepo,
	statusRepo repos.StatusRepo,
	statusTaskRepo repos.StatusTaskRepo,
	transitionRepo repos.StatusTransitionRepo,
	taskRepo repos.TaskRepo,
	categoryRepo repos.CategoryRepo,
	locationRepo repos.LocationRepo,
) ProductService {
	return &productService{
		db:                db,
		log:               baseLog.With("service", "ProductService"),
		metrics:           metrics,
		productRepo:       productRepo,
		productTaskRepo:   productTaskRepo,
		productStatusRepo: productStatusRepo,
		statusRepo:        statusRepo,
		statusTaskRepo:    statusTaskRepo,
		transitionRepo:    transitionRepo,
		taskRepo:          taskRepo,
		categoryRepo:      categoryRepo,
		locationRepo:      locationRepo,
	}
}

// validSerialNumber reports whether sn is exactly 13 decimal digits.
func validSerialNumber(sn string) bool {
	if len(sn) != 13 {
		return false
	}
	for _, c := range sn {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (ps *productService) CreateProduct(ctx context.Context, in CreateProductInput) (product *types.Product, err error) {
	defer func() { ps.metrics.ObserveCommand("create_product", err) }()

	if !validSerialNumber(in.SerialNumber) {
		return nil, &workflow.InvalidSerialNumberError{SerialNumber: in.SerialNumber}
	}
	priority := in.Priority
	if priority == "" {
		priority = types.PriorityNormal
	}
	if !types.ValidPriority(priority) {
		return nil, &workflow.ValidationError{Field: "priority", Value: priority, Rule: "must be normal, hot or urgent"}
	}

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := ps.categoryRepo.GetByID(ctx, tx, in.CategoryID)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if category == nil {
			return &workflow.NotFoundError{Entity: "category", Key: in.CategoryID.String()}
		}
		existing, err := ps.productRepo.GetBySerialNumber(ctx, tx, in.SerialNumber)
		if err != nil {
			return fmt.Errorf("check serial number: %w", err)
		}
		if existing != nil {
			return &workflow.ValidationError{Field: "serial_number", Value: in.SerialNumber, Rule: "already registered"}
		}

		status, err := ps.resolveEntryStatus(ctx, tx, in.StatusID)
		if err != nil {
			return err
		}

		now := time.Now()
		product = &types.Product{
			ID:              uuid.New(),
			SerialNumber:    in.SerialNumber,
			CategoryID:      in.CategoryID,
			Priority:        priority,
			Description:     in.Description,
			CurrentStatusID: &status.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if _, err := ps.productRepo.Create(ctx, tx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return ps.enterStatus(ctx, tx, product, status)
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("CreateProduct", "product_id", product.ID, "serial_number", product.SerialNumber, "priority", product.Priority)
	return product, nil
}

func (ps *productService) resolveEntryStatus(ctx context.Context, tx *gorm.DB, statusID *uuid.UUID) (*types.Status, error) {
	if statusID != nil {
		status, err := ps.statusRepo.GetByID(ctx, tx, *statusID)
		if err != nil {
			return nil, fmt.Errorf("load status: %w", err)
		}
		if status == nil {
			return nil, &workflow.NotFoundError{Entity: "status", Key: statusID.String()}
		}
		return status, nil
	}
	status, err := ps.statusRepo.GetByName(ctx, tx, types.DefaultEntryStatusName)
	if err != nil {
		return nil, fmt.Errorf("load entry status: %w", err)
	}
	if status != nil {
		return status, nil
	}
	now := time.Now()
	status = &types.Status{
		ID:          uuid.New(),
		Name:        types.DefaultEntryStatusName,
		Description: "Initial sorting of incoming RMA units",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ps.statusRepo.Create(ctx, tx, status); err != nil {
		return nil, fmt.Errorf("create entry status: %w", err)
	}
	return status, nil
}

// enterStatus runs the status-entry side effects exactly once per entry
// event: history row, predefined task assignment, current-task resolution,
// and the closed-status cleanup. The caller must already hold the product
// row inside tx with current_status_id set to the new status.
func (ps *productService) enterStatus(ctx context.Context, tx *gorm.DB, product *types.Product, status *types.Status) error {
	history := &types.ProductStatus{
		ID:        uuid.New(),
		ProductID: product.ID,
		StatusID:  status.ID,
		CreatedAt: time.Now(),
	}
	if err := ps.productStatusRepo.Create(ctx, tx, history); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	if err := ps.assignPredefinedTasks(ctx, tx, product, status.ID); err != nil {
		return err
	}
	if _, err := ps.locateCurrentTask(ctx, tx, product); err != nil {
		return err
	}
	if status.IsClosed {
		product.CurrentTaskID = nil
		product.LocationID = nil
		if err := ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
			"current_task_id": nil,
			"location_id":     nil,
			"updated_at":      time.Now(),
		}); err != nil {
			return fmt.Errorf("close product: %w", err)
		}
	}
	return nil
}

// assignPredefinedTasks appends one instance per predefined template row, in
// template order. Repeat visits to a status append again for finalized
// pairs; a pair with an instance still active keeps that instance instead,
// so there is never a second active row for the same (product, task). Only
// enterStatus may call this.
func (ps *productService) assignPredefinedTasks(ctx context.Context, tx *gorm.DB, product *types.Product, statusID uuid.UUID) error {
	templates, err := ps.statusTaskRepo.ListByStatus(ctx, tx, statusID, true)
	if err != nil {
		return fmt.Errorf("load predefined tasks: %w", err)
	}
	if len(templates) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]*types.ProductTask, 0, len(templates))
	for _, tpl := range templates {
		active, err := ps.productTaskRepo.HasActive(ctx, tx, product.ID, tpl.TaskID)
		if err != nil {
			return fmt.Errorf("check active instance: %w", err)
		}
		if active {
			continue
		}
		rows = append(rows, &types.ProductTask{
			ID:           uuid.New(),
			ProductID:    product.ID,
			TaskID:       tpl.TaskID,
			IsPredefined: true,
			Position:     tpl.Position,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := ps.productTaskRepo.Create(ctx, tx, rows); err != nil {
		return fmt.Errorf("assign predefined tasks: %w", err)
	}
	return nil
}

// locateCurrentTask recomputes the current-task pointer from the task
// instance ledger and persists it. The persisted pointer is only a cache;
// this recomputation is the source of truth.
func (ps *productService) locateCurrentTask(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.ProductTask, error) {
	next, err := ps.productTaskRepo.FirstActive(ctx, tx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("locate current task: %w", err)
	}
	var taskID *uuid.UUID
	if next != nil {
		taskID = &next.TaskID
	}
	if err := ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
		"current_task_id": taskID,
		"updated_at":      time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("persist current task: %w", err)
	}
	product.CurrentTaskID = taskID
	return next, nil
}

func (ps *productService) ChangeStatus(ctx context.Context, productID, newStatusID uuid.UUID) (product *types.Product, err error) {
	defer func() { ps.metrics.ObserveCommand("change_status", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		newStatus, err := ps.statusRepo.GetByID(ctx, tx, newStatusID)
		if err != nil {
			return fmt.Errorf("load status: %w", err)
		}
		if newStatus == nil {
			return &workflow.NotFoundError{Entity: "status", Key: newStatusID.String()}
		}

		// The initial assignment bypasses the graph; every later change
		// must follow an edge.
		if product.CurrentStatusID != nil {
			reachable, err := ps.transitionRepo.Exists(ctx, tx, *product.CurrentStatusID, newStatusID)
			if err != nil {
				return fmt.Errorf("check transition: %w", err)
			}
			if !reachable {
				fromName := ""
				if from, err := ps.statusRepo.GetByID(ctx, tx, *product.CurrentStatusID); err == nil && from != nil {
					fromName = from.Name
				}
				return &workflow.InvalidTransitionError{ProductID: product.ID, FromStatus: fromName, ToStatus: newStatus.Name}
			}
		}

		blocking, err := ps.productTaskRepo.CountActiveBlocking(ctx, tx, product.ID)
		if err != nil {
			return fmt.Errorf("count blocking tasks: %w", err)
		}
		if blocking > 0 {
			return &workflow.IncompleteTasksError{ProductID: product.ID, BlockedCount: int(blocking)}
		}

		if err := ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
			"current_status_id": newStatusID,
			"updated_at":        time.Now(),
		}); err != nil {
			return fmt.Errorf("persist status: %w", err)
		}
		product.CurrentStatusID = &newStatus.ID
		return ps.enterStatus(ctx, tx, product, newStatus)
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("ChangeStatus", "product_id", productID, "new_status_id", newStatusID)
	return product, nil
}

func (ps *productService) CompleteTask(ctx context.Context, productTaskID uuid.UUID, result, note string) (row *types.ProductTask, err error) {
	defer func() { ps.metrics.ObserveCommand("complete_task", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = ps.productTaskRepo.GetByIDForUpdate(ctx, tx, productTaskID)
		if err != nil {
			return fmt.Errorf("load product task: %w", err)
		}
		if row == nil {
			return &workflow.NotFoundError{Entity: "product task", Key: productTaskID.String()}
		}
		if !row.Active() {
			return &workflow.AlreadyFinalizedError{ProductTaskID: row.ID}
		}
		product, err := ps.productRepo.GetByIDForUpdate(ctx, tx, row.ProductID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil {
			return &workflow.NotFoundError{Entity: "product", Key: row.ProductID.String()}
		}

		row.IsCompleted = true
		row.Result = result
		row.Note = note
		row.UpdatedAt = time.Now()
		if err := ps.productTaskRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("persist completion: %w", err)
		}
		if _, err := ps.locateCurrentTask(ctx, tx, product); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("CompleteTask", "product_task_id", productTaskID)
	return row, nil
}

func (ps *productService) SkipTask(ctx context.Context, productTaskID uuid.UUID) (row *types.ProductTask, err error) {
	defer func() { ps.metrics.ObserveCommand("skip_task", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = ps.productTaskRepo.GetByIDForUpdate(ctx, tx, productTaskID)
		if err != nil {
			return fmt.Errorf("load product task: %w", err)
		}
		if row == nil {
			return &workflow.NotFoundError{Entity: "product task", Key: productTaskID.String()}
		}
		if !row.Active() {
			return &workflow.AlreadyFinalizedError{ProductTaskID: row.ID}
		}
		task, err := ps.taskRepo.GetByID(ctx, tx, row.TaskID)
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}
		if task == nil {
			return &workflow.NotFoundError{Entity: "task", Key: row.TaskID.String()}
		}
		if !task.Skippable {
			return &workflow.NotSkippableError{ProductTaskID: row.ID, TaskAction: task.Action}
		}
		product, err := ps.productRepo.GetByIDForUpdate(ctx, tx, row.ProductID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil {
			return &workflow.NotFoundError{Entity: "product", Key: row.ProductID.String()}
		}

		row.IsSkipped = true
		if row.Result == "" {
			row.Result = "Skipped"
		} else {
			row.Result = "Skipped: " + row.Result
		}
		row.UpdatedAt = time.Now()
		if err := ps.productTaskRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("persist skip: %w", err)
		}
		if _, err := ps.locateCurrentTask(ctx, tx, product); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("SkipTask", "product_task_id", productTaskID)
	return row, nil
}

func (ps *productService) AssignAdHocTask(ctx context.Context, productID, taskID uuid.UUID, asPredefinedTemplate bool) (row *types.ProductTask, err error) {
	defer func() { ps.metrics.ObserveCommand("assign_adhoc_task", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		task, err := ps.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}
		if task == nil {
			return &workflow.NotFoundError{Entity: "task", Key: taskID.String()}
		}
		active, err := ps.productTaskRepo.HasActive(ctx, tx, productID, taskID)
		if err != nil {
			return fmt.Errorf("check active instance: %w", err)
		}
		if active {
			return &workflow.ValidationError{Field: "task", Value: task.Action, Rule: "an active instance already exists for this product"}
		}

		now := time.Now()
		// Always an ad-hoc instance; the flag only seeds the template for
		// future products entering this status.
		row = &types.ProductTask{
			ID:           uuid.New(),
			ProductID:    productID,
			TaskID:       taskID,
			IsPredefined: false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := ps.productTaskRepo.Create(ctx, tx, []*types.ProductTask{row}); err != nil {
			return fmt.Errorf("create ad-hoc task: %w", err)
		}

		if asPredefinedTemplate && product.CurrentStatusID != nil {
			existing, err := ps.statusTaskRepo.Get(ctx, tx, *product.CurrentStatusID, taskID)
			if err != nil {
				return fmt.Errorf("check template: %w", err)
			}
			if existing == nil {
				max, err := ps.statusTaskRepo.MaxPosition(ctx, tx, *product.CurrentStatusID)
				if err != nil {
					return fmt.Errorf("max position: %w", err)
				}
				tpl := &types.StatusTask{
					ID:           uuid.New(),
					StatusID:     *product.CurrentStatusID,
					TaskID:       taskID,
					IsPredefined: true,
					Position:     max + 1,
					CreatedAt:    now,
				}
				if err := ps.statusTaskRepo.Create(ctx, tx, tpl); err != nil {
					return fmt.Errorf("seed template: %w", err)
				}
			}
		}

		// Only re-derive the pointer when the product had nothing to work
		// on; an in-flight current task keeps precedence.
		if product.CurrentTaskID == nil {
			if _, err := ps.locateCurrentTask(ctx, tx, product); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("AssignAdHocTask", "product_id", productID, "task_id", taskID, "as_predefined_template", asPredefinedTemplate)
	return row, nil
}

func (ps *productService) AssignLocation(ctx context.Context, productID uuid.UUID, rack string, layer, space int) (product *types.Product, err error) {
	defer func() { ps.metrics.ObserveCommand("assign_location", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		location, err := ps.locationRepo.GetOrCreate(ctx, tx, rack, layer, space)
		if err != nil {
			return fmt.Errorf("resolve location: %w", err)
		}
		holder, err := ps.productRepo.LocationHolder(ctx, tx, location.ID, product.ID)
		if err != nil {
			return fmt.Errorf("check occupancy: %w", err)
		}
		if holder != uuid.Nil {
			return &workflow.LocationOccupiedError{Rack: rack, Layer: layer, Space: space}
		}
		if err := ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
			"location_id": location.ID,
			"updated_at":  time.Now(),
		}); err != nil {
			return fmt.Errorf("persist location: %w", err)
		}
		product.LocationID = &location.ID
		product.Location = location
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("AssignLocation", "product_id", productID, "rack", rack, "layer", layer, "space", space)
	return product, nil
}

func (ps *productService) ReleaseLocation(ctx context.Context, productID uuid.UUID) (product *types.Product, err error) {
	defer func() { ps.metrics.ObserveCommand("release_location", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		if err := ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
			"location_id": nil,
			"updated_at":  time.Now(),
		}); err != nil {
			return fmt.Errorf("release location: %w", err)
		}
		product.LocationID = nil
		product.Location = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Info("ReleaseLocation", "product_id", productID)
	return product, nil
}

func (ps *productService) RemoveProduct(ctx context.Context, productID uuid.UUID) (err error) {
	defer func() { ps.metrics.ObserveCommand("remove_product", err) }()

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		return ps.productRepo.UpdateFields(ctx, tx, product.ID, map[string]interface{}{
			"removed":         true,
			"location_id":     nil,
			"current_task_id": nil,
			"updated_at":      time.Now(),
		})
	})
	if err != nil {
		return err
	}
	ps.log.Info("RemoveProduct", "product_id", productID)
	return nil
}

func (ps *productService) LocateCurrentTask(ctx context.Context, productID uuid.UUID) (task *types.Task, err error) {
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := ps.productRepo.GetByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product == nil || product.Removed {
			return &workflow.NotFoundError{Entity: "product", Key: productID.String()}
		}
		next, err := ps.locateCurrentTask(ctx, tx, product)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		task, err = ps.taskRepo.GetByID(ctx, tx, next.TaskID)
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (ps *productService) GetBySerialNumber(ctx context.Context, sn string) (*types.Product, error) {
	product, err := ps.productRepo.GetBySerialNumber(ctx, nil, sn)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, &workflow.NotFoundError{Entity: "product", Key: sn}
	}
	return product, nil
}

func (ps *productService) ListProducts(ctx context.Context, filter repos.ProductFilter) ([]*types.Product, error) {
	return ps.productRepo.List(ctx, nil, filter)
}

func (ps *productService) ListProductTasks(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.ProductTask, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil || product.Removed {
		return nil, &workflow.NotFoundError{Entity: "product", Key: productID.String()}
	}
	return ps.productTaskRepo.ListByProduct(ctx, nil, productID, activeOnly)
}

func (ps *productService) PossibleNextStatuses(ctx context.Context, productID uuid.UUID) ([]*types.Status, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil || product.Removed {
		return nil, &workflow.NotFoundError{Entity: "product", Key: productID.String()}
	}
	if product.CurrentStatusID == nil {
		return []*types.Status{}, nil
	}
	edges, err := ps.transitionRepo.ListFrom(ctx, nil, *product.CurrentStatusID)
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
