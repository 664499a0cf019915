package progress

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"hadithhub/logger"
	"hadithhub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func stalledSource(name string) statSource {
	return statSource{name: name, fetch: func(ctx context.Context, _ *gorm.DB, _ uuid.UUID, _ Day, _ *Snapshot) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
			return nil
		}
	}}
}

func TestGatherDefaultsSlowSource(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	setStats(t, db, user, map[string]interface{}{"hadith_read_count": 12})

	agg := NewAggregator(db, logger.Nop(), 300*time.Millisecond, fixedNow)
	agg.sources = append([]statSource{stalledSource("stalled")}, statSources...)

	start := time.Now()
	snap := agg.Gather(t.Context(), user)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, []string{"stalled"}, snap.Degraded)
	assert.Equal(t, 12, snap.HadithRead)
	assert.NotNil(t, snap.AccountCreatedAt)
}

func TestCheckAchievementsDefersGrantsPastDeadline(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	setStats(t, db, user, map[string]interface{}{"notes_count": 5})
	for _, slug := range []string{"notes-first", "notes-second", "notes-third"} {
		seedAchievement(t, db, slug, `{"type":"notes_count","threshold":1}`, 10)
	}

	// The second grant of the pass stalls until the evaluation deadline.
	var inserts atomic.Int32
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:stall_second_grant", func(tx *gorm.DB) {
		if tx.Statement.Table != "user_achievements" {
			return
		}
		if inserts.Add(1) == 2 {
			<-tx.Statement.Context.Done()
			tx.AddError(tx.Statement.Context.Err())
		}
	}))

	engine := NewEngine(db, logger.Nop(), Options{
		FetchTimeout:      time.Second,
		EvaluationTimeout: 500 * time.Millisecond,
		Now:               fixedNow,
	})
	got, err := engine.CheckAchievements(t.Context(), user)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-first"}, got)

	var held int64
	require.NoError(t, db.Model(&models.UserAchievement{}).Where("user_id = ?", user).Count(&held).Error)
	assert.Equal(t, int64(1), held)
	stats := loadStats(t, db, user)
	assert.Equal(t, 10, stats.TotalXP)
	assert.Equal(t, 1, stats.AchievementsUnlocked)

	got, err = engine.CheckAchievements(t.Context(), user)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-second", "notes-third"}, got)
	assert.Equal(t, 30, loadStats(t, db, user).TotalXP)
}

func TestCheckAchievementsCatalogTimeout(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "achievements"`).
		WillDelayFor(5 * time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	engine := NewEngine(db, logger.Nop(), Options{EvaluationTimeout: 50 * time.Millisecond, Now: fixedNow})
	start := time.Now()
	got, err := engine.CheckAchievements(t.Context(), uuid.New())
	require.ErrorIs(t, err, ErrEvaluationTimeout)
	assert.NotErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{}, got)
	assert.Less(t, time.Since(start), 2*time.Second)
}
