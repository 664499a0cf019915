package admin

import (
	"errors"

	"hadithhub/catalog"
	"hadithhub/database"
	"hadithhub/models"
	"hadithhub/progress"
	"hadithhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AchievementRequest is the admin create/update body. Omitted fields keep
// their stored value on update.
type AchievementRequest struct {
	Slug         *string         `json:"slug"`
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Tier         *int            `json:"tier"`
	Icon         *string         `json:"icon"`
	XPReward     *int            `json:"xp_reward"`
	Criteria     *datatypes.JSON `json:"criteria"`
	IsActive     *bool           `json:"is_active"`
	DisplayOrder *int            `json:"display_order"`
}

func (r AchievementRequest) applyTo(a *models.Achievement) {
	if r.Slug != nil {
		a.Slug = *r.Slug
	}
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.Category != nil {
		a.Category = *r.Category
	}
	if r.Tier != nil {
		a.Tier = *r.Tier
	}
	if r.Icon != nil {
		a.Icon = *r.Icon
	}
	if r.XPReward != nil {
		a.XPReward = *r.XPReward
	}
	if r.Criteria != nil {
		a.Criteria = *r.Criteria
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	if r.DisplayOrder != nil {
		a.DisplayOrder = *r.DisplayOrder
	}
}

func validationResponse(c *fiber.Ctx, err error) error {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return c.Status(400).JSON(fiber.Map{
			"success":  false,
			"error":    "Invalid achievement",
			"problems": verr.Problems,
		})
	}
	return utils.JSONError(c, 400, err.Error())
}

// GetAchievements returns the whole catalog, inactive entries included
// GET /api/admin/achievements
func GetAchievements(c *fiber.Ctx) error {
	var achievements []models.Achievement
	if err := db.WithContext(c.UserContext()).Order("display_order ASC, id ASC").Find(&achievements).Error; err != nil {
		return utils.JSONError(c, 500, "Failed to fetch achievements")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{"achievements": achievements})
}

// CreateAchievement adds a catalog entry
// POST /api/admin/achievements
func CreateAchievement(c *fiber.Ctx) error {
	var req AchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}

	achievement := models.Achievement{Tier: 1, IsActive: true}
	req.applyTo(&achievement)
	if err := catalog.ValidateAchievement(achievement); err != nil {
		return validationResponse(c, err)
	}
	if canonical, err := catalog.CanonicalCriteria(achievement.Criteria); err == nil {
		achievement.Criteria = canonical
	}

	if err := db.WithContext(c.UserContext()).Create(&achievement).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return utils.JSONError(c, 409, "An achievement with this slug already exists")
		}
		log.Error("create achievement failed", "slug", achievement.Slug, "error", err)
		return utils.JSONError(c, 500, "Failed to create achievement")
	}
	log.Info("achievement created", "id", achievement.ID, "slug", achievement.Slug)
	return utils.JSONSuccess(c, 201, fiber.Map{"achievement": achievement})
}

// UpdateAchievement edits a catalog entry. Existing grants are kept.
// PUT /api/admin/achievements/:id
func UpdateAchievement(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.JSONError(c, 400, "Invalid achievement id")
	}

	var achievement models.Achievement
	if err := db.WithContext(c.UserContext()).First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.JSONError(c, 404, "Achievement not found")
		}
		return utils.JSONError(c, 500, "Failed to fetch achievement")
	}

	var req AchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	req.applyTo(&achievement)
	if err := catalog.ValidateAchievement(achievement); err != nil {
		return validationResponse(c, err)
	}
	if canonical, err := catalog.CanonicalCriteria(achievement.Criteria); err == nil {
		achievement.Criteria = canonical
	}

	if err := db.WithContext(c.UserContext()).Save(&achievement).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return utils.JSONError(c, 409, "An achievement with this slug already exists")
		}
		return utils.JSONError(c, 500, "Failed to update achievement")
	}
	return utils.JSONSuccess(c, 200, fiber.Map{"achievement": achievement})
}

// DeleteAchievement retires an entry. Rows stay so existing unlocks keep
// pointing at a catalog entry; retired entries are no longer evaluated or
// listed.
// DELETE /api/admin/achievements/:id
func DeleteAchievement(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.JSONError(c, 400, "Invalid achievement id")
	}

	res := db.WithContext(c.UserContext()).Model(&models.Achievement{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return utils.JSONError(c, 500, "Failed to delete achievement")
	}
	if res.RowsAffected == 0 {
		return utils.JSONError(c, 404, "Achievement not found")
	}
	log.Info("achievement retired", "id", id)
	return utils.JSONSuccess(c, 200, fiber.Map{"message": "Achievement retired"})
}

type RecheckRequest struct {
	UserID string `json:"user_id"`
}

// RecheckAchievements grants anything the catalog now allows, for one user
// or for everyone.
// POST /api/admin/achievements/recheck
func RecheckAchievements(c *fiber.Ctx) error {
	var req RecheckRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, 400, "Invalid request body")
		}
	}

	ctx := c.UserContext()
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return utils.JSONError(c, 400, "Invalid user_id")
		}
		slugs, err := engine.CheckAchievements(ctx, userID)
		if err != nil {
			return recheckError(c, err)
		}
		return utils.JSONSuccess(c, 200, fiber.Map{"granted": map[string][]string{userID.String(): slugs}})
	}

	granted, err := engine.CheckAll(ctx)
	if err != nil {
		return recheckError(c, err)
	}
	out := make(map[string][]string, len(granted))
	for id, slugs := range granted {
		out[id.String()] = slugs
	}
	log.Info("recheck finished", "users_with_grants", len(out))
	return utils.JSONSuccess(c, 200, fiber.Map{"granted": out})
}

func recheckError(c *fiber.Ctx, err error) error {
	if errors.Is(err, progress.ErrCatalogUnavailable) {
		return utils.JSONError(c, 503, "Achievement catalog unavailable")
	}
	if errors.Is(err, progress.ErrEvaluationTimeout) {
		return utils.JSONError(c, 504, "Recheck timed out")
	}
	log.Error("recheck failed", "error", err)
	return utils.JSONError(c, 500, "Recheck failed")
}
