package progress

import (
	"fmt"
	"testing"
	"time"

	"hadithhub/logger"
	"hadithhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAggregator(db *gorm.DB) *Aggregator {
	return NewAggregator(db, logger.Nop(), 2*time.Second, fixedNow)
}

func seedSahaba(t *testing.T, db *gorm.DB, n int) []models.Sahaba {
	t.Helper()
	var out []models.Sahaba
	for i := 0; i < n; i++ {
		s := models.Sahaba{Slug: "companion-" + uuid.NewString(), Name: "Companion", IsPublished: true}
		require.NoError(t, db.Create(&s).Error)
		out = append(out, s)
	}
	return out
}

func TestAllStoriesCompleteTracksPublishedCount(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	agg := newTestAggregator(db)

	for _, s := range seedSahaba(t, db, 10) {
		require.NoError(t, db.Create(&models.SahabaReadingProgress{UserID: user, SahabaID: s.ID, IsCompleted: true}).Error)
	}
	snap := agg.Gather(t.Context(), user)
	require.Empty(t, snap.Degraded)
	assert.True(t, snap.AllSahabaStoriesComplete)

	seedSahaba(t, db, 1)
	snap = agg.Gather(t.Context(), user)
	assert.False(t, snap.AllSahabaStoriesComplete, "a newly published story reopens the set")
}

func TestAllStoriesCompleteIgnoresUnpublished(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	agg := newTestAggregator(db)

	assert.False(t, agg.Gather(t.Context(), user).AllProphetStoriesComplete, "nothing published")

	published := models.Prophet{Slug: "nuh", Name: "Nuh", IsPublished: true}
	draft := models.Prophet{Slug: "hud", Name: "Hud"}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)
	require.NoError(t, db.Create(&models.ProphetReadingProgress{UserID: user, ProphetID: draft.ID, IsCompleted: true}).Error)

	snap := agg.Gather(t.Context(), user)
	assert.False(t, snap.AllProphetStoriesComplete)
	assert.Equal(t, 1, snap.ProphetStoriesRead)

	require.NoError(t, db.Create(&models.ProphetReadingProgress{UserID: user, ProphetID: published.ID, IsCompleted: true}).Error)
	snap = agg.Gather(t.Context(), user)
	assert.True(t, snap.AllProphetStoriesComplete)
	assert.Equal(t, 2, snap.ProphetStoriesRead)
}

func TestGatherLearningAndQuizzes(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	done := models.LearningPath{Slug: "foundations", Title: "Foundations", IsPublished: true}
	half := models.LearningPath{Slug: "fiqh", Title: "Fiqh", IsPublished: true}
	empty := models.LearningPath{Slug: "empty", Title: "Empty", IsPublished: true}
	for _, p := range []*models.LearningPath{&done, &half, &empty} {
		require.NoError(t, db.Create(p).Error)
	}
	var lessons []models.LearningLesson
	for _, pathID := range []uint{done.ID, done.ID, half.ID, half.ID} {
		l := models.LearningLesson{PathID: pathID, Title: "lesson"}
		require.NoError(t, db.Create(&l).Error)
		lessons = append(lessons, l)
	}
	for _, l := range lessons[:3] {
		require.NoError(t, db.Create(&models.LearningProgress{UserID: user, LessonID: l.ID, Status: "completed"}).Error)
	}
	require.NoError(t, db.Create(&models.LearningProgress{UserID: user, LessonID: lessons[3].ID, Status: "in_progress"}).Error)

	for _, score := range []int{100, 80, 40} {
		require.NoError(t, db.Create(&models.QuizAttempt{UserID: user, ScorePercent: score, Passed: score >= 70}).Error)
	}
	for _, tag := range []string{"prayer", "fasting", "prayer", ""} {
		require.NoError(t, db.Create(&models.HadithView{UserID: user, HadithID: "h", Tag: tag, ViewedAt: testNow}).Error)
	}

	snap := newTestAggregator(db).Gather(t.Context(), user)
	require.Empty(t, snap.Degraded)
	assert.Equal(t, 3, snap.LessonsCompleted)
	assert.Equal(t, 1, snap.PathsCompleted)
	assert.Equal(t, 2, snap.QuizzesPassed)
	assert.Equal(t, 1, snap.QuizPerfectScores)
	assert.Equal(t, 2, snap.TagsExplored)
}

func TestGatherStreaks(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	today := DayOf(testNow)

	for _, d := range []Day{today, today - 1, today - 5, today - 6, today - 7, today - 8} {
		logActivity(t, db, user, KindRead, d)
	}
	logActivity(t, db, user, KindShare, today)
	for i, d := range []Day{today - 1, today - 2} {
		require.NoError(t, db.Create(&models.SunnahTracking{UserID: user, SunnahID: fmt.Sprintf("miswak-%d", i), PracticedDate: d.String()}).Error)
	}

	snap := newTestAggregator(db).Gather(t.Context(), user)
	require.Empty(t, snap.Degraded)
	assert.Equal(t, Streak{Current: 2, Longest: 4}, snap.Reading)
	assert.Equal(t, Streak{Current: 2, Longest: 2}, snap.Sunnah)
	assert.Len(t, snap.ActiveDays, 6)
}

func TestGatherDegradesFailedSources(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	setStats(t, db, user, map[string]interface{}{"hadith_read_count": 12})
	require.NoError(t, db.Migrator().DropTable(&models.QuizAttempt{}))

	snap := newTestAggregator(db).Gather(t.Context(), user)
	assert.ElementsMatch(t, []string{"quizzes_passed", "quiz_perfect_scores"}, snap.Degraded)
	assert.Equal(t, 12, snap.HadithRead)
	assert.Zero(t, snap.QuizzesPassed)

	engine := newTestEngine(t, db, nil)
	seedAchievement(t, db, "reader", `{"type":"hadith_read_count","threshold":10}`, 10)
	got, err := engine.CheckAchievements(t.Context(), user)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, got)
}

func TestGatherWithoutStatsRow(t *testing.T) {
	db := newTestDB(t)
	u := models.User{Username: "fresh"}
	require.NoError(t, db.Create(&u).Error)

	snap := newTestAggregator(db).Gather(t.Context(), u.ID)
	assert.Equal(t, []string{"counters"}, snap.Degraded)
	assert.NotNil(t, snap.AccountCreatedAt)
}
