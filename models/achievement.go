// models/achievement.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Achievement is a catalog entry. The engine only reads it; admins edit it.
type Achievement struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Slug         string         `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:50;not null;index" json:"category"` // reading, streak, social, learning, stories, special
	Tier         int            `gorm:"not null;default:1" json:"tier"`         // 1 Bronze, 2 Silver, 3 Gold, 4 Platinum
	Icon         string         `gorm:"size:50" json:"icon"`
	XPReward     int            `gorm:"not null;default:0" json:"xp_reward"`
	Criteria     datatypes.JSON `gorm:"not null" json:"criteria"`
	IsActive     bool           `gorm:"not null;index" json:"is_active"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement is the durable grant. (user_id, achievement_id) is unique.
type UserAchievement struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:1" json:"user_id"`
	AchievementID uint       `gorm:"not null;uniqueIndex:idx_user_achievement,priority:2;index" json:"achievement_id"`
	UnlockedAt    time.Time  `gorm:"not null" json:"unlocked_at"`
	IsNew         bool       `gorm:"not null;default:true" json:"is_new"`
	ViewedAt      *time.Time `json:"viewed_at,omitempty"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
