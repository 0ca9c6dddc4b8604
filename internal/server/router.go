package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rmastack/rmaflow-backend/internal/handlers"
	"github.com/rmastack/rmaflow-backend/internal/middleware"
	"github.com/rmastack/rmaflow-backend/internal/observability"
)

type RouterConfig struct {
	RequestLogger  *middleware.RequestLogger
	Metrics        *observability.Metrics
	ProductHandler *handlers.ProductHandler
	CatalogHandler *handlers.CatalogHandler
	StatusHandler  *handlers.StatusHandler
	TaskHandler    *handlers.TaskHandler
	CORSOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	// Cors
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		// Products
		api.POST("/products", cfg.ProductHandler.CreateProduct)
		api.GET("/products", cfg.ProductHandler.ListProducts)
		api.GET("/products/:sn", cfg.ProductHandler.GetProduct)
		api.DELETE("/products/:sn", cfg.ProductHandler.RemoveProduct)
		api.POST("/products/:sn/status", cfg.ProductHandler.ChangeStatus)
		api.GET("/products/:sn/next-statuses", cfg.ProductHandler.NextStatuses)
		api.GET("/products/:sn/tasks", cfg.ProductHandler.ListTasks)
		api.POST("/products/:sn/tasks", cfg.ProductHandler.AssignAdHocTask)
		api.GET("/products/:sn/history", cfg.ProductHandler.StatusHistory)
		api.POST("/products/:sn/location", cfg.ProductHandler.AssignLocation)
		api.DELETE("/products/:sn/location", cfg.ProductHandler.ReleaseLocation)

		// Task instances
		api.POST("/product-tasks/:id/complete", cfg.ProductHandler.CompleteTask)
		api.POST("/product-tasks/:id/skip", cfg.ProductHandler.SkipTask)

		// Catalog
		api.POST("/categories", cfg.CatalogHandler.CreateCategory)
		api.GET("/categories", cfg.CatalogHandler.ListCategories)
		api.POST("/racks", cfg.CatalogHandler.GenerateRack)
		api.GET("/locations", cfg.CatalogHandler.ListLocations)

		// Status graph and templates
		api.POST("/statuses", cfg.StatusHandler.CreateStatus)
		api.GET("/statuses", cfg.StatusHandler.ListStatuses)
		api.PATCH("/statuses/:id", cfg.StatusHandler.UpdateStatus)
		api.POST("/statuses/:id/transitions", cfg.StatusHandler.AddTransition)
		api.GET("/statuses/:id/transitions", cfg.StatusHandler.ListTransitions)
		api.POST("/statuses/:id/tasks", cfg.StatusHandler.InsertStatusTask)
		api.GET("/statuses/:id/tasks", cfg.StatusHandler.ListStatusTasks)
		api.DELETE("/statuses/:id/tasks/:taskID", cfg.StatusHandler.RemoveStatusTask)

		// Task templates
		api.POST("/tasks", cfg.TaskHandler.CreateTask)
		api.GET("/tasks", cfg.TaskHandler.ListTasks)
	}

	return router
}
