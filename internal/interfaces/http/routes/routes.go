package routes

import (
	"os"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/application/usecases"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/interfaces/http/handlers"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag support so the dashboard can revalidate reports cheaply
	app.Use(etag.New())

	app.Use(middleware.PerformanceLogger())

	authMiddleware := middleware.NewAuthMiddleware(os.Getenv("SUPABASE_JWT_SECRET"))
	groups := middleware.SetupRouteGroups(app, authMiddleware)

	// Health check
	groups.Public.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Repositories
	analyticsRepo := repositories.NewAnalyticsRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	// Use Cases
	analyticsUseCase := usecases.NewAnalyticsUseCase(analyticsRepo)
	sessionUseCase := usecases.NewSessionUseCase(sessionRepo)

	// Handlers
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsUseCase)
	sessionHandler := handlers.NewSessionHandler(sessionUseCase)

	// Unified analytics report
	groups.Admin.Get("/analytics/unified", analyticsHandler.GetUnifiedReport)

	// Session drill-down
	groups.Admin.Get("/analytics/sessions", sessionHandler.GetSessions)
	groups.Admin.Get("/analytics/sessions/active", sessionHandler.GetActiveSessions)
	groups.Admin.Get("/analytics/sessions/:id", sessionHandler.GetSessionByID)
}
