// models/stats.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStats holds the rolling counters and the experience ledger.
// Columns are only ever changed with "col = col + n" updates.
type UserStats struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`

	HadithReadCount      int `gorm:"not null;default:0" json:"hadith_read_count"`
	BookmarksCount       int `gorm:"not null;default:0" json:"bookmarks_count"`
	NotesCount           int `gorm:"not null;default:0" json:"notes_count"`
	SharesCount          int `gorm:"not null;default:0" json:"shares_count"`
	StoriesCompleted     int `gorm:"not null;default:0" json:"stories_completed"`
	QuizzesCompleted     int `gorm:"not null;default:0" json:"quizzes_completed"`
	LessonsCompleted     int `gorm:"not null;default:0" json:"lessons_completed"`
	PathsCompleted       int `gorm:"not null;default:0" json:"paths_completed"`
	SunnahPracticeCount  int `gorm:"not null;default:0" json:"sunnah_practice_count"`
	AchievementsUnlocked int `gorm:"not null;default:0" json:"achievements_unlocked"`
	TotalXP              int `gorm:"column:total_xp;not null;default:0" json:"total_xp"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
