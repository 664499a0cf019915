package admin

import (
	"hadithhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts /api/admin. Login is the only unauthenticated route.
func RegisterRoutes(app *fiber.App, loginLimiter *middleware.RateLimiter) {
	api := app.Group("/api/admin")
	api.Post("/login", middleware.FiberRateLimitMiddleware(loginLimiter), Login)

	protected := api.Group("", middleware.AdminAuthMiddleware(jwtSecret))
	protected.Get("/verify", VerifyToken)

	protected.Get("/achievements", GetAchievements)
	protected.Post("/achievements", CreateAchievement)
	protected.Post("/achievements/recheck", RecheckAchievements)
	protected.Put("/achievements/:id", UpdateAchievement)
	protected.Delete("/achievements/:id", DeleteAchievement)

	protected.Get("/users", GetUsers)
	protected.Get("/users/:id/progress", GetUserProgress)
	protected.Post("/users/:id/progress/init", InitUserProgress)
}
