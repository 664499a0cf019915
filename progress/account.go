package progress

import (
	"context"

	"hadithhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitAccount creates the user's stats row. Calling it again is a no-op.
func InitAccount(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&models.UserStats{UserID: userID}).Error
}

// addToStats applies col = col + n for each entry. Columns come from
// activityRules or the award ledger, never from callers.
func addToStats(tx *gorm.DB, userID uuid.UUID, deltas map[string]int) error {
	updates := make(map[string]interface{}, len(deltas))
	for col, n := range deltas {
		updates[col] = gorm.Expr(col+" + ?", n)
	}
	res := tx.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotInitialized
	}
	return nil
}
