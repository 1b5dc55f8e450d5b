package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "https://app.sourcecodeals.com, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))
}

// RouteGroups are the API's route groups.
type RouteGroups struct {
	Public fiber.Router
	Admin  fiber.Router
}

// SetupRouteGroups wires the groups with their middlewares. Everything
// under /admin requires a valid platform JWT.
func SetupRouteGroups(app *fiber.App, authMiddleware fiber.Handler) RouteGroups {
	public := app.Group("/")

	admin := app.Group("/admin")
	admin.Use(authMiddleware)

	return RouteGroups{
		Public: public,
		Admin:  admin,
	}
}
