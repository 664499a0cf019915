// handlers/leaderboard.go
package handlers

import (
	"hadithhub/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the global ranking
// GET /api/progress/leaderboard?category=xp&limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	category := c.Query("category", "xp")
	limit := clampInt(c.QueryInt("limit", 100), 1, 100)
	offset := maxInt(c.QueryInt("offset", 0), 0)

	entries, total, err := progressEngine.Leaderboard(c.UserContext(), category, limit, offset)
	if err != nil {
		progressLog.Error("leaderboard failed", "error", err)
		return utils.JSONError(c, 500, "Failed to fetch leaderboard")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{
		"users":    entries,
		"category": category,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
