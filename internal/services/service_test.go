package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/types"
)

// testEnv wires the full engine against an in-memory sqlite database.
type testEnv struct {
	db      *gorm.DB
	catalog CatalogService
	status  StatusService
	task    TaskService
	product ProductService
	history HistoryService

	productRepo     repos.ProductRepo
	productTaskRepo repos.ProductTaskRepo
	statusTaskRepo  repos.StatusTaskRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A single connection keeps the private in-memory database shared
	// across the whole test.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&types.Category{},
		&types.Location{},
		&types.Status{},
		&types.StatusTransition{},
		&types.Task{},
		&types.StatusTask{},
		&types.Product{},
		&types.ProductTask{},
		&types.ProductStatus{},
	))

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	categoryRepo := repos.NewCategoryRepo(gdb, log)
	locationRepo := repos.NewLocationRepo(gdb, log)
	statusRepo := repos.NewStatusRepo(gdb, log)
	transitionRepo := repos.NewStatusTransitionRepo(gdb, log)
	taskRepo := repos.NewTaskRepo(gdb, log)
	statusTaskRepo := repos.NewStatusTaskRepo(gdb, log)
	productRepo := repos.NewProductRepo(gdb, log)
	productTaskRepo := repos.NewProductTaskRepo(gdb, log)
	productStatusRepo := repos.NewProductStatusRepo(gdb, log)

	return &testEnv{
		db:      gdb,
		catalog: NewCatalogService(gdb, log, categoryRepo, locationRepo),
		status:  NewStatusService(gdb, log, statusRepo, transitionRepo),
		task:    NewTaskService(gdb, log, taskRepo, statusRepo, statusTaskRepo),
		product: NewProductService(
			gdb, log, nil,
			productRepo, productTaskRepo, productStatusRepo,
			statusRepo, statusTaskRepo, transitionRepo,
			taskRepo, categoryRepo, locationRepo,
		),
		history: NewHistoryService(gdb, log, productRepo, productStatusRepo, productTaskRepo, statusTaskRepo),

		productRepo:     productRepo,
		productTaskRepo: productTaskRepo,
		statusTaskRepo:  statusTaskRepo,
	}
}

// seedSortingFlow creates the default entry status with two predefined
// tasks and a category, the baseline most lifecycle tests start from.
func (e *testEnv) seedSortingFlow(t *testing.T, skippable bool) (category *types.Category, sorting *types.Status, taskA, taskB *types.Task) {
	t.Helper()
	ctx := context.Background()
	var err error
	category, err = e.catalog.CreateCategory(ctx, "Board")
	require.NoError(t, err)
	sorting, err = e.status.CreateStatus(ctx, types.DefaultEntryStatusName, "", false)
	require.NoError(t, err)
	taskA, err = e.task.CreateTask(ctx, "TaskA", "visual inspection", "", skippable)
	require.NoError(t, err)
	taskB, err = e.task.CreateTask(ctx, "TaskB", "functional test", "", skippable)
	require.NoError(t, err)
	_, err = e.task.InsertTaskAtPosition(ctx, sorting.ID, taskA.ID, 1, true, 0)
	require.NoError(t, err)
	_, err = e.task.InsertTaskAtPosition(ctx, sorting.ID, taskB.ID, 2, true, 0)
	require.NoError(t, err)
	return category, sorting, taskA, taskB
}
