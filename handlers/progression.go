// handlers/progression.go - Progress, XP and achievement endpoints
package handlers

import (
	"errors"

	"hadithhub/logger"
	"hadithhub/middleware"
	"hadithhub/progress"
	"hadithhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	progressEngine *progress.Engine
	progressDB     *gorm.DB
	progressLog    = logger.Nop()
)

// InitProgressHandlers wires the engine used by the progress routes.
func InitProgressHandlers(db *gorm.DB, engine *progress.Engine, log *logger.Logger) {
	if db == nil || engine == nil {
		panic("database and progress engine are required before InitProgressHandlers")
	}
	progressDB = db
	progressEngine = engine
	if log != nil {
		progressLog = log.Named("http.progress")
	}
}

type TrackActivityRequest struct {
	ActivityType string `json:"activity_type"`
	ItemID       string `json:"item_id"`
}

type MarkViewedRequest struct {
	AchievementIDs []uint `json:"achievement_ids"`
}

// TrackActivity records one activity and reports the XP and unlocks it caused.
// POST /api/progress/track
func TrackActivity(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.JSONError(c, 401, err.Error())
	}

	var req TrackActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	kind, err := progress.ParseActivityKind(req.ActivityType)
	if err != nil {
		return utils.JSONError(c, 400, "Unknown activity_type")
	}

	ctx := c.UserContext()
	res, err := progressEngine.TrackActivity(ctx, userID, kind, req.ItemID)
	if errors.Is(err, progress.ErrAccountNotInitialized) {
		// first activity of a fresh account
		if initErr := progress.InitAccount(ctx, progressDB, userID); initErr != nil {
			progressLog.Error("init account failed", "user_id", userID, "error", initErr)
			return utils.JSONError(c, 500, "Failed to track activity")
		}
		res, err = progressEngine.TrackActivity(ctx, userID, kind, req.ItemID)
	}
	if err != nil {
		if errors.Is(err, progress.ErrInvalidSubject) || errors.Is(err, progress.ErrUnknownActivity) {
			return utils.JSONError(c, 400, err.Error())
		}
		progressLog.Error("track activity failed", "user_id", userID, "kind", kind, "error", err)
		return utils.JSONError(c, 500, "Failed to track activity")
	}

	return utils.JSONSuccess(c, 200, fiber.Map{
		"xp_earned":        res.XPEarned,
		"new_achievements": res.NewAchievements,
		"duplicate":        res.Duplicate,
	})
}

// CheckAchievements runs an evaluation pass for the caller.
// POST /api/progress/check
func CheckAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.JSONError(c, 401, err.Error())
	}

	unlocked, err := progressEngine.CheckAchievements(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, progress.ErrCatalogUnavailable) {
			return utils.JSONError(c, 503, "Achievements are temporarily unavailable")
		}
		if errors.Is(err, progress.ErrEvaluationTimeout) {
			return utils.JSONError(c, 504, "Achievement check timed out")
		}
		progressLog.Error("check achievements failed", "user_id", userID, "error", err)
		return utils.JSONError(c, 500, "Failed to check achievements")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{"new_achievements": unlocked})
}

// GetProgress returns level, XP and the aggregated stats.
// GET /api/progress
func GetProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.JSONError(c, 401, err.Error())
	}
	p := progressEngine.Progress(c.UserContext(), userID)
	return utils.JSONSuccess(c, 200, fiber.Map{"progress": p})
}

// GetUserAchievements lists the catalog with the caller's unlock state.
// GET /api/progress/achievements
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.JSONError(c, 401, err.Error())
	}

	list, err := progressEngine.ListAchievements(c.UserContext(), userID)
	if err != nil {
		progressLog.Error("list achievements failed", "user_id", userID, "error", err)
		return utils.JSONError(c, 500, "Failed to fetch achievements")
	}
	unlocked, fresh := 0, 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
		if a.IsNew {
			fresh++
		}
	}
	return utils.JSONSuccess(c, 200, fiber.Map{
		"achievements":   list,
		"total":          len(list),
		"unlocked_count": unlocked,
		"new_count":      fresh,
	})
}

// MarkAchievementsViewed clears is_new for the given ids, or all when none
// are given.
// PATCH /api/progress/achievements/viewed
func MarkAchievementsViewed(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.JSONError(c, 401, err.Error())
	}

	var req MarkViewedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, 400, "Invalid request body")
		}
	}

	n, err := progressEngine.MarkViewed(c.UserContext(), userID, req.AchievementIDs)
	if err != nil {
		progressLog.Error("mark viewed failed", "user_id", userID, "error", err)
		return utils.JSONError(c, 500, "Failed to update achievements")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{"updated": n})
}
