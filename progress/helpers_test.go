package progress

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hadithhub/config"
	"hadithhub/database"
	"hadithhub/logger"
	"hadithhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := database.Open(config.Database{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "progress.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func newTestEngine(t *testing.T, db *gorm.DB, n Notifier) *Engine {
	t.Helper()
	return NewEngine(db, logger.Nop(), Options{
		FetchTimeout:      2 * time.Second,
		EvaluationTimeout: 5 * time.Second,
		Notifier:          n,
		Now:               fixedNow,
	})
}

// newTestUser creates a user and its stats row.
func newTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	u := models.User{Username: "user-" + uuid.NewString()[:8], CreatedAt: testNow.AddDate(0, -1, 0)}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, InitAccount(t.Context(), db, u.ID))
	return u.ID
}

func seedAchievement(t *testing.T, db *gorm.DB, slug, criteria string, xp int) models.Achievement {
	t.Helper()
	a := models.Achievement{
		Slug:     slug,
		Name:     slug,
		Category: "reading",
		Tier:     1,
		XPReward: xp,
		Criteria: datatypes.JSON(criteria),
		IsActive: true,
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func setStats(t *testing.T, db *gorm.DB, userID uuid.UUID, values map[string]interface{}) {
	t.Helper()
	require.NoError(t, db.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(values).Error)
}

func loadStats(t *testing.T, db *gorm.DB, userID uuid.UUID) models.UserStats {
	t.Helper()
	var s models.UserStats
	require.NoError(t, db.Where("user_id = ?", userID).Take(&s).Error)
	return s
}

func logActivity(t *testing.T, db *gorm.DB, userID uuid.UUID, kind ActivityKind, day Day) {
	t.Helper()
	require.NoError(t, db.Create(&models.ActivityLog{
		UserID:       userID,
		Kind:         string(kind),
		SubjectID:    fmt.Sprintf("seed-%d", day),
		ActivityDate: day.String(),
	}).Error)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[uuid.UUID][]string
}

func (n *recordingNotifier) NotifyUnlocked(userID uuid.UUID, slugs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = make(map[uuid.UUID][]string)
	}
	n.calls[userID] = append(n.calls[userID], slugs...)
}
