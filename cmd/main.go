package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rmastack/rmaflow-backend/internal/db"
	"github.com/rmastack/rmaflow-backend/internal/handlers"
	"github.com/rmastack/rmaflow-backend/internal/logger"
	"github.com/rmastack/rmaflow-backend/internal/middleware"
	"github.com/rmastack/rmaflow-backend/internal/observability"
	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/server"
	"github.com/rmastack/rmaflow-backend/internal/services"
	"github.com/rmastack/rmaflow-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	httpPort := utils.GetEnv("HTTP_PORT", "8080", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)
	metricsEnabled := utils.GetEnvAsBool("METRICS_ENABLED", true, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	locationRepo := repos.NewLocationRepo(thePG, log)
	statusRepo := repos.NewStatusRepo(thePG, log)
	transitionRepo := repos.NewStatusTransitionRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)
	statusTaskRepo := repos.NewStatusTaskRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	productTaskRepo := repos.NewProductTaskRepo(thePG, log)
	productStatusRepo := repos.NewProductStatusRepo(thePG, log)

	// Metrics
	var metrics *observability.Metrics
	if metricsEnabled {
		metrics = observability.NewMetrics()
	}

	// Services
	log.Info("Setting up Services from main...")
	catalogService := services.NewCatalogService(thePG, log, categoryRepo, locationRepo)
	statusService := services.NewStatusService(thePG, log, statusRepo, transitionRepo)
	taskService := services.NewTaskService(thePG, log, taskRepo, statusRepo, statusTaskRepo)
	productService := services.NewProductService(
		thePG,
		log,
		metrics,
		productRepo,
		productTaskRepo,
		productStatusRepo,
		statusRepo,
		statusTaskRepo,
		transitionRepo,
		taskRepo,
		categoryRepo,
		locationRepo,
	)
	historyService := services.NewHistoryService(thePG, log, productRepo, productStatusRepo, productTaskRepo, statusTaskRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	productHandler := handlers.NewProductHandler(log, productService, historyService)
	catalogHandler := handlers.NewCatalogHandler(log, catalogService)
	statusHandler := handlers.NewStatusHandler(log, statusService, taskService)
	taskHandler := handlers.NewTaskHandler(log, taskService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:  middleware.NewRequestLogger(log),
		Metrics:        metrics,
		ProductHandler: productHandler,
		CatalogHandler: catalogHandler,
		StatusHandler:  statusHandler,
		TaskHandler:    taskHandler,
		CORSOrigins:    strings.Split(corsOrigins, ","),
	})

	log.Info("Starting HTTP server", "port", httpPort)
	if err := router.Run(":" + httpPort); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
