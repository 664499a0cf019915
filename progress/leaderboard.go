package progress

import (
	"context"

	"gorm.io/gorm"
)

type LeaderboardEntry struct {
	Rank                 int    `json:"rank"`
	UserID               string `json:"user_id"`
	Username             string `json:"username"`
	DisplayName          string `json:"display_name"`
	TotalXP              int    `json:"total_xp"`
	Level                int    `json:"level" gorm:"-"`
	Title                string `json:"title" gorm:"-"`
	AchievementsUnlocked int    `json:"achievements_unlocked"`
}

var leaderboardOrder = map[string]string{
	"xp":           "user_stats.total_xp DESC, user_stats.achievements_unlocked DESC, users.username ASC",
	"achievements": "user_stats.achievements_unlocked DESC, user_stats.total_xp DESC, users.username ASC",
}

// Leaderboard ranks users by "xp" (default) or "achievements".
func (e *Engine) Leaderboard(ctx context.Context, category string, limit, offset int) ([]LeaderboardEntry, int64, error) {
	order, ok := leaderboardOrder[category]
	if !ok {
		order = leaderboardOrder["xp"]
	}

	ranked := func() *gorm.DB {
		return e.db.WithContext(ctx).Table("user_stats").
			Joins("JOIN users ON users.id = user_stats.user_id")
	}

	var total int64
	if err := ranked().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaderboardEntry
	if err := ranked().
		Select("users.id AS user_id, users.username, users.display_name, user_stats.total_xp, user_stats.achievements_unlocked").
		Order(order).
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Rank = offset + i + 1
		rows[i].Level = CalculateLevel(rows[i].TotalXP)
		rows[i].Title = LevelTitle(rows[i].Level)
	}
	return rows, total, nil
}
