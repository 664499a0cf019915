package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hadithhub/logger"
	"hadithhub/metrics"
	"hadithhub/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Aggregator builds Snapshots. Every source is fetched concurrently with its
// own timeout; a failing source is defaulted to zero and listed in
// Snapshot.Degraded instead of failing the snapshot.
type Aggregator struct {
	db           *gorm.DB
	log          *logger.Logger
	fetchTimeout time.Duration
	now          func() time.Time
	sources      []statSource
}

func NewAggregator(db *gorm.DB, log *logger.Logger, fetchTimeout time.Duration, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		db:           db,
		log:          log.Named("stats"),
		fetchTimeout: fetchTimeout,
		now:          now,
		sources:      statSources,
	}
}

type statSource struct {
	name  string
	fetch func(ctx context.Context, db *gorm.DB, userID uuid.UUID, today Day, s *Snapshot) error
}

// Each source writes only its own Snapshot fields, and only after all of its
// queries succeeded.
var statSources = []statSource{
	{name: "counters", fetch: fetchCounters},
	{name: "reading_days", fetch: fetchReadingDays},
	{name: "sunnah_days", fetch: fetchSunnahDays},
	{name: "quizzes_passed", fetch: fetchQuizzesPassed},
	{name: "quiz_perfect_scores", fetch: fetchQuizPerfectScores},
	{name: "lessons", fetch: fetchLessons},
	{name: "paths", fetch: fetchPaths},
	{name: "prophet_stories", fetch: fetchProphetStories},
	{name: "sahaba_stories", fetch: fetchSahabaStories},
	{name: "tags", fetch: fetchTags},
	{name: "account", fetch: fetchAccount},
}

// Gather never returns an error; see Snapshot.Degraded.
func (a *Aggregator) Gather(ctx context.Context, userID uuid.UUID) *Snapshot {
	snap := &Snapshot{UserID: userID}
	today := DayOf(a.now().UTC())

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, src := range a.sources {
		src := src
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()

			if err := src.fetch(fctx, a.db.WithContext(fctx), userID, today, snap); err != nil {
				metrics.RecordStatFetchFailure(src.name)
				a.log.Warn("stat source failed, using default", "source", src.name, "user_id", userID, "error", err)
				mu.Lock()
				snap.Degraded = append(snap.Degraded, src.name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return snap
}

func fetchCounters(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var row models.UserStats
	if err := db.Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotInitialized
		}
		return err
	}
	s.HadithRead = row.HadithReadCount
	s.Notes = row.NotesCount
	s.Bookmarks = row.BookmarksCount
	s.Shares = row.SharesCount
	s.StoriesCompleted = row.StoriesCompleted
	s.QuizzesCompleted = row.QuizzesCompleted
	s.SunnahPractices = row.SunnahPracticeCount
	s.LessonsLogged = row.LessonsCompleted
	s.PathsLogged = row.PathsCompleted
	s.AchievementsUnlocked = row.AchievementsUnlocked
	s.TotalXP = row.TotalXP
	return nil
}

func fetchReadingDays(ctx context.Context, db *gorm.DB, userID uuid.UUID, today Day, s *Snapshot) error {
	var raw []string
	if err := db.Model(&models.ActivityLog{}).
		Where("user_id = ?", userID).
		Distinct("activity_date").
		Pluck("activity_date", &raw).Error; err != nil {
		return err
	}
	days, bad := parseDays(raw)
	if bad > 0 {
		return fmt.Errorf("%d malformed activity_date values", bad)
	}
	s.ActiveDays = days
	s.Reading = ComputeStreak(days, today)
	return nil
}

func fetchSunnahDays(ctx context.Context, db *gorm.DB, userID uuid.UUID, today Day, s *Snapshot) error {
	var raw []string
	if err := db.Model(&models.SunnahTracking{}).
		Where("user_id = ?", userID).
		Distinct("practiced_date").
		Pluck("practiced_date", &raw).Error; err != nil {
		return err
	}
	days, bad := parseDays(raw)
	if bad > 0 {
		return fmt.Errorf("%d malformed practiced_date values", bad)
	}
	s.Sunnah = ComputeStreak(days, today)
	return nil
}

func fetchQuizzesPassed(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var n int64
	if err := db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Count(&n).Error; err != nil {
		return err
	}
	s.QuizzesPassed = int(n)
	return nil
}

func fetchQuizPerfectScores(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var n int64
	if err := db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND score_percent = ?", userID, 100).
		Count(&n).Error; err != nil {
		return err
	}
	s.QuizPerfectScores = int(n)
	return nil
}

func fetchLessons(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var n int64
	if err := db.Model(&models.LearningProgress{}).
		Where("user_id = ? AND status = ?", userID, "completed").
		Count(&n).Error; err != nil {
		return err
	}
	s.LessonsCompleted = int(n)
	return nil
}

// A path counts as completed when every lesson it currently has is completed.
const completedPathsSQL = `
SELECT COUNT(*) FROM (
	SELECT l.path_id
	FROM learning_lessons l
	JOIN learning_paths p ON p.id = l.path_id AND p.is_published = ?
	LEFT JOIN learning_progress lp ON lp.lesson_id = l.id AND lp.user_id = ? AND lp.status = ?
	GROUP BY l.path_id
	HAVING COUNT(lp.id) = COUNT(l.id)
) completed_paths`

func fetchPaths(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var n int64
	if err := db.Raw(completedPathsSQL, true, userID, "completed").Scan(&n).Error; err != nil {
		return err
	}
	s.PathsCompleted = int(n)
	return nil
}

type completionCounts struct {
	completed          int64
	completedPublished int64
	published          int64
}

// allComplete compares against the published total as it is right now, so
// publishing a new item reopens the set.
func (c completionCounts) allComplete() bool {
	return c.published > 0 && c.completedPublished >= c.published
}

func countCompletion(db *gorm.DB, progressTable, itemTable, fk string, userID uuid.UUID) (completionCounts, error) {
	var c completionCounts
	if err := db.Table(progressTable).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&c.completed).Error; err != nil {
		return c, err
	}
	if err := db.Table(progressTable+" AS progress").
		Joins(fmt.Sprintf("JOIN %s item ON item.id = progress.%s", itemTable, fk)).
		Where("progress.user_id = ? AND progress.is_completed = ? AND item.is_published = ?", userID, true, true).
		Count(&c.completedPublished).Error; err != nil {
		return c, err
	}
	if err := db.Table(itemTable).
		Where("is_published = ?", true).
		Count(&c.published).Error; err != nil {
		return c, err
	}
	return c, nil
}

func fetchProphetStories(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	c, err := countCompletion(db, "prophet_reading_progress", "prophets", "prophet_id", userID)
	if err != nil {
		return err
	}
	s.ProphetStoriesRead = int(c.completed)
	s.AllProphetStoriesComplete = c.allComplete()
	return nil
}

func fetchSahabaStories(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	c, err := countCompletion(db, "sahaba_reading_progress", "sahaba", "sahaba_id", userID)
	if err != nil {
		return err
	}
	s.AllSahabaStoriesComplete = c.allComplete()
	return nil
}

func fetchTags(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var n int64
	if err := db.Model(&models.HadithView{}).
		Where("user_id = ? AND tag <> ?", userID, "").
		Distinct("tag").
		Count(&n).Error; err != nil {
		return err
	}
	s.TagsExplored = int(n)
	return nil
}

func fetchAccount(ctx context.Context, db *gorm.DB, userID uuid.UUID, _ Day, s *Snapshot) error {
	var user models.User
	if err := db.Select("id", "created_at").Where("id = ?", userID).Take(&user).Error; err != nil {
		return err
	}
	created := user.CreatedAt
	s.AccountCreatedAt = &created
	return nil
}
