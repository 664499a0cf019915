package progress

import (
	"context"
	"fmt"
	"time"

	"hadithhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AwardLedger records unlocks. The (user_id, achievement_id) unique index is
// what makes a grant happen at most once.
type AwardLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAwardLedger(db *gorm.DB, now func() time.Time) *AwardLedger {
	if now == nil {
		now = time.Now
	}
	return &AwardLedger{db: db, now: now}
}

// Grant returns false with a nil error when the user already holds def.
func (l *AwardLedger) Grant(ctx context.Context, userID uuid.UUID, def Definition) (bool, error) {
	if def.XPReward < 0 {
		return false, fmt.Errorf("%w: %s rewards %d", ErrNegativeXP, def.Slug, def.XPReward)
	}

	granted := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    l.now().UTC(),
			IsNew:         true,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&ua)
		if res.Error != nil {
			return fmt.Errorf("insert user achievement: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := addToStats(tx, userID, map[string]int{
			"total_xp":              def.XPReward,
			"achievements_unlocked": 1,
		}); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}
