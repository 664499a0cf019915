package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hadithhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxSubjectLen = 128

// Recorded describes what a single Record call changed.
type Recorded struct {
	Kind       ActivityKind
	Duplicate  bool
	CreditedXP int
}

// Tracker appends to the activity log and credits counters and XP.
type Tracker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTracker(db *gorm.DB, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{db: db, now: now}
}

// Record logs one activity for today (UTC). A repeat of the same
// (kind, subject, day) is reported as Duplicate and changes nothing.
func (t *Tracker) Record(ctx context.Context, userID uuid.UUID, kind ActivityKind, subjectID string) (Recorded, error) {
	rec := Recorded{Kind: kind}
	if !kind.Valid() {
		return rec, fmt.Errorf("%w: %q", ErrUnknownActivity, kind)
	}
	subject := strings.TrimSpace(subjectID)
	if len(subject) > maxSubjectLen {
		return rec, fmt.Errorf("%w: longer than %d bytes", ErrInvalidSubject, maxSubjectLen)
	}

	entry := models.ActivityLog{
		UserID:       userID,
		Kind:         string(kind),
		SubjectID:    subject,
		ActivityDate: DayOf(t.now().UTC()).String(),
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "kind"}, {Name: "subject_id"}, {Name: "activity_date"},
			},
			DoNothing: true,
		}).Create(&entry)
		if res.Error != nil {
			return fmt.Errorf("insert activity: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			rec.Duplicate = true
			return nil
		}

		if err := addToStats(tx, userID, map[string]int{
			kind.counterColumn(): 1,
			"total_xp":           kind.XP(),
		}); err != nil {
			return err
		}
		rec.CreditedXP = kind.XP()
		return nil
	})
	if err != nil {
		rec.Duplicate = false
		rec.CreditedXP = 0
		return rec, err
	}
	return rec, nil
}
