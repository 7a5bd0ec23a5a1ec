// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"log"

	"finsentry/internal/analytics"
	"finsentry/internal/config"
	"finsentry/internal/handlers"
	"finsentry/internal/middleware"
	"finsentry/internal/models"
	"finsentry/internal/repositories"
	"finsentry/internal/services/auth"
	"finsentry/internal/services/banking"
	"finsentry/internal/services/classifier"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App) {
	// Repositories
	investigatorRepo := repositories.NewInvestigatorRepository(repositories.DB, repositories.CacheService)
	datasetRepo := repositories.NewDatasetRepository(repositories.DB)
	reportRepo := repositories.NewReportRepository(repositories.DB)

	// Services
	authService := auth.NewService(investigatorRepo)
	engine := analytics.New()
	integrator := banking.NewIntegrator()

	classifierService, err := classifier.Load(config.GetEnv("MODEL_PATH", "models/fraud_model.json"))
	if err != nil {
		log.Printf("Falling back to built-in classifier model: %v", err)
		classifierService = classifier.Default()
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	datasetHandler := handlers.NewDatasetHandler(datasetRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(engine, datasetRepo, reportRepo, repositories.CacheService)
	predictHandler := handlers.NewPredictHandler(classifierService)
	bankingHandler := handlers.NewBankingHandler(integrator)
	adminHandler := handlers.NewAdminHandler(investigatorRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "FinSentry Investigation API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/health", handlers.HealthCheck)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(investigatorRepo)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	setupDatasetRoutes(protected, datasetHandler, analyticsHandler)
	setupPredictionRoutes(protected, predictHandler)
	setupBankingRoutes(protected, bankingHandler)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupDatasetRoutes(router fiber.Router, datasets *handlers.DatasetHandler, analyticsHandler *handlers.AnalyticsHandler) {
	ds := router.Group("/datasets")

	ds.Post("/", middleware.HasPermission(models.PermissionDatasetWrite), datasets.Upload)
	ds.Get("/", middleware.HasPermission(models.PermissionDatasetRead), datasets.List)
	ds.Get("/:id", middleware.HasPermission(models.PermissionDatasetRead), datasets.Get)
	ds.Delete("/:id", middleware.HasPermission(models.PermissionDatasetWrite), datasets.Delete)

	// Analysis over a stored dataset
	ds.Post("/:id/analyze/comprehensive", middleware.HasPermission(models.PermissionAnalyticsRun), analyticsHandler.RunComprehensive)
	ds.Post("/:id/analyze/:kind", middleware.HasPermission(models.PermissionAnalyticsRun), analyticsHandler.RunModule)
	ds.Get("/:id/report", middleware.HasPermission(models.PermissionDatasetRead), analyticsHandler.GetReport)
	ds.Get("/:id/reports", middleware.HasPermission(models.PermissionDatasetRead), analyticsHandler.ListReports)
}

func setupPredictionRoutes(router fiber.Router, h *handlers.PredictHandler) {
	predict := router.Group("/predict", middleware.HasPermission(models.PermissionAnalyticsRun))

	predict.Post("/", h.Score)
	predict.Post("/batch", h.ScoreBatch)
}

func setupBankingRoutes(router fiber.Router, h *handlers.BankingHandler) {
	bank := router.Group("/banking", middleware.HasPermission(models.PermissionBankingRead))

	bank.Get("/connections", h.Connections)
	bank.Post("/:bank/authenticate", h.Authenticate)
	bank.Get("/:bank/transactions", h.Transactions)
	bank.Get("/:bank/accounts/:account", h.Account)
	bank.Post("/:bank/alerts", h.RegisterAlerts)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Get("/investigators", middleware.HasPermission(models.PermissionReadAdmin), h.ListInvestigators)
	admin.Delete("/investigators/:id", middleware.HasPermission(models.PermissionWriteAdmin), h.DeleteInvestigator)
	admin.Post("/cache/flush", middleware.HasPermission(models.PermissionWriteAdmin), h.FlushCache)
	admin.Get("/cache-stats", handlers.CacheStats)
}
