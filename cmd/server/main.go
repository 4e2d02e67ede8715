package main

import (
	"log"

	"legal_office_go/config"
	"legal_office_go/db"
	"legal_office_go/handlers"
	"legal_office_go/middleware"
	"legal_office_go/models"
	"legal_office_go/services"
	"legal_office_go/services/jobs"
	"legal_office_go/services/judicial"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.CaseRecord{},
		&models.DocketUpdate{},
		&models.CompanyWatch{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Raw capture archive (R2 or local fallback)
	services.InitializeArchive(cfg)

	if err := services.SeedFirmFromEnv(db.DB); err != nil {
		log.Printf("[WARNING] firm seed failed: %v", err)
	}

	// Judicial data provider for Brazilian firms
	provider, err := judicial.GetProvider("BR",
		judicial.WithBaseURL(cfg.ProviderBaseURL),
		judicial.WithAPIKey(cfg.ProviderAPIKey),
		judicial.WithTimeout(cfg.ProviderTimeout()),
	)
	if err != nil {
		log.Fatalf("Failed to initialize judicial provider: %v", err)
	}

	handlers.InitServices(db.DB, cfg, provider)

	// Create Echo instance
	e := echo.New()
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Public routes
	e.GET("/health", handlers.HealthHandler)
	e.POST("/webhooks/docket-updates", handlers.DocketWebhookHandler)

	// Tenant-scoped API (firm resolved from X-API-Key)
	api := e.Group("/api")
	api.Use(middleware.RequireFirm(db.DB))
	{
		api.POST("/cases/resolve", handlers.ResolveCaseHandler)
		api.GET("/cases", handlers.ListCasesHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.DELETE("/cases/:id", handlers.DeleteCaseHandler)

		api.GET("/cases/:id/updates", handlers.ListCaseUpdatesHandler)
		api.POST("/cases/:id/updates/read", handlers.MarkAllUpdatesReadHandler)
		api.POST("/cases/:id/updates/:updateId/read", handlers.MarkUpdateReadHandler)

		api.POST("/cases/:id/monitoring/toggle", handlers.ToggleMonitoringHandler)

		api.POST("/search/oab", handlers.SearchOABHandler)
		api.POST("/search/cnpj", handlers.SearchCNPJHandler)

		api.POST("/company-watches", handlers.CreateCompanyWatchHandler)
		api.GET("/company-watches", handlers.ListCompanyWatchesHandler)
		api.DELETE("/company-watches/:id", handlers.DeleteCompanyWatchHandler)

		api.GET("/cases/import/template", handlers.DownloadImportTemplateHandler)
		api.POST("/cases/import", handlers.ImportCasesHandler)

		api.GET("/notifications", handlers.ListNotificationsHandler)
		api.POST("/notifications/read", handlers.MarkAllNotificationsReadHandler)
		api.POST("/notifications/:id/read", handlers.MarkNotificationReadHandler)
	}

	// Daily pull refresh + digest emails
	jobs.StartScheduler(db.DB, cfg, provider)

	log.Printf("Starting server on port %s (env: %s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
