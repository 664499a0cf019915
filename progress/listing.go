package progress

import (
	"context"
	"time"

	"hadithhub/models"

	"github.com/google/uuid"
)

// AchievementStatus pairs a catalog entry with the user's unlock state.
type AchievementStatus struct {
	models.Achievement
	TierLabel  string     `json:"tier_label"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	IsNew      bool       `json:"is_new"`
}

// ListAchievements returns the active catalog in display order, marked with
// what the user has unlocked.
func (e *Engine) ListAchievements(ctx context.Context, userID uuid.UUID) ([]AchievementStatus, error) {
	var catalog []models.Achievement
	if err := e.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}

	var grants []models.UserAchievement
	if err := e.db.WithContext(ctx).Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.UserAchievement, len(grants))
	for _, g := range grants {
		byID[g.AchievementID] = g
	}

	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		st := AchievementStatus{Achievement: a, TierLabel: TierLabel(a.Tier)}
		if g, ok := byID[a.ID]; ok {
			at := g.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &at
			st.IsNew = g.IsNew
		}
		out = append(out, st)
	}
	return out, nil
}

// MarkViewed clears is_new on the given achievements, or on all of the
// user's new ones when ids is empty. It returns the number of rows changed.
func (e *Engine) MarkViewed(ctx context.Context, userID uuid.UUID, ids []uint) (int64, error) {
	q := e.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ? AND is_new = ?", userID, true)
	if len(ids) > 0 {
		q = q.Where("achievement_id IN ?", ids)
	}
	res := q.Updates(map[string]interface{}{
		"is_new":    false,
		"viewed_at": e.now().UTC(),
	})
	return res.RowsAffected, res.Error
}

// Progress is the summary behind GET /api/progress.
type Progress struct {
	LevelInfo
	Stats *Snapshot `json:"stats"`
}

func (e *Engine) Progress(ctx context.Context, userID uuid.UUID) Progress {
	snap := e.stats.Gather(ctx, userID)
	return Progress{LevelInfo: GetLevelInfo(snap.TotalXP), Stats: snap}
}
