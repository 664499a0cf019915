// models/activity.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is append-only. At most one row exists per
// (user, kind, subject, calendar day); SubjectID is "" rather than NULL so the
// unique index also covers subject-less activity.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_unique,priority:1" json:"user_id"`
	Kind         string    `gorm:"size:32;not null;uniqueIndex:idx_activity_unique,priority:2" json:"kind"`
	SubjectID    string    `gorm:"size:128;not null;default:'';uniqueIndex:idx_activity_unique,priority:3" json:"subject_id"`
	ActivityDate string    `gorm:"size:10;not null;uniqueIndex:idx_activity_unique,priority:4" json:"activity_date"` // YYYY-MM-DD, UTC
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "user_activity_log"
}
