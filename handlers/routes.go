// handlers/routes.go - Route table for the progress API
package handlers

import (
	"hadithhub/middleware"
	"hadithhub/services"

	"github.com/gofiber/fiber/v2"
)

// RegisterProgressRoutes mounts /api/progress and /ws/progress. The limiter
// applies to the track endpoint only; pass nil to disable it.
func RegisterProgressRoutes(app *fiber.App, secret string, limiter *middleware.RateLimiter, hub *services.UnlockHub) {
	auth := middleware.AuthMiddleware(secret)

	p := app.Group("/api/progress", auth)
	p.Get("/", GetProgress)
	p.Post("/track", middleware.FiberRateLimitMiddleware(limiter), TrackActivity)
	p.Post("/check", CheckAchievements)
	p.Get("/achievements", GetUserAchievements)
	p.Patch("/achievements/viewed", MarkAchievementsViewed)
	p.Get("/leaderboard", GetLeaderboard)

	if hub != nil {
		app.Get("/ws/progress", RequireWebSocketUpgrade, middleware.WebSocketAuthMiddleware(secret), ProgressStream(hub))
	}
}
