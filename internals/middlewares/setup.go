package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"coursedig_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base chain. Order matters: recovery first so a
// panic anywhere below still returns JSON.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
