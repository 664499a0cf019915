package admin

import (
	"errors"

	"hadithhub/models"
	"hadithhub/progress"
	"hadithhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRow struct {
	ID                   uuid.UUID `json:"id"`
	Username             string    `json:"username"`
	DisplayName          string    `json:"display_name"`
	TotalXP              int       `json:"total_xp"`
	AchievementsUnlocked int       `json:"achievements_unlocked"`
	Level                int       `json:"level" gorm:"-"`
}

// GetUsers lists users with their XP, newest first
// GET /api/admin/users?page=1&limit=20&search=
func GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	search := c.Query("search", "")

	base := func() *gorm.DB {
		q := db.WithContext(c.UserContext()).Table("users").
			Joins("LEFT JOIN user_stats ON user_stats.user_id = users.id")
		if search != "" {
			q = q.Where("users.username LIKE ? OR users.email LIKE ?", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return utils.JSONError(c, 500, "Failed to fetch users")
	}

	var users []userRow
	if err := base().
		Select("users.id, users.username, users.display_name, " +
			"COALESCE(user_stats.total_xp, 0) AS total_xp, " +
			"COALESCE(user_stats.achievements_unlocked, 0) AS achievements_unlocked").
		Order("users.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&users).Error; err != nil {
		return utils.JSONError(c, 500, "Failed to fetch users")
	}
	for i := range users {
		users[i].Level = progress.CalculateLevel(users[i].TotalXP)
	}

	return utils.JSONSuccess(c, 200, fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUserProgress shows what the engine sees for one user
// GET /api/admin/users/:id/progress
func GetUserProgress(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, 400, "Invalid user id")
	}

	var user models.User
	if err := db.WithContext(c.UserContext()).Where("id = ?", userID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, 404, "User not found")
		}
		return utils.JSONError(c, 500, "Failed to fetch user")
	}

	achievements, err := engine.ListAchievements(c.UserContext(), userID)
	if err != nil {
		return utils.JSONError(c, 500, "Failed to fetch achievements")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{
		"user":         user,
		"progress":     engine.Progress(c.UserContext(), userID),
		"achievements": achievements,
	})
}

// InitUserProgress creates the stats row for a user that has none
// POST /api/admin/users/:id/progress/init
func InitUserProgress(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, 400, "Invalid user id")
	}
	if err := progress.InitAccount(c.UserContext(), db, userID); err != nil {
		log.Error("init progress failed", "user_id", userID, "error", err)
		return utils.JSONError(c, 500, "Failed to initialize progress")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{"user_id": userID})
}
