package progress

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the aggregated, recomputable view of one user's progress. It is
// rebuilt from the ledger and the domain tables on every evaluation.
type Snapshot struct {
	UserID uuid.UUID `json:"user_id"`

	HadithRead           int `json:"hadith_read_count"`
	Notes                int `json:"notes_count"`
	Bookmarks            int `json:"bookmarks_count"`
	Shares               int `json:"shares_count"`
	StoriesCompleted     int `json:"stories_completed"`
	LessonsCompleted     int `json:"lessons_completed"`
	PathsCompleted       int `json:"paths_completed"`
	QuizzesPassed        int `json:"quizzes_passed"`
	QuizzesCompleted     int `json:"quizzes_completed"`
	SunnahPractices      int `json:"sunnah_practice_count"`
	QuizPerfectScores    int `json:"quiz_perfect_scores"`
	ProphetStoriesRead   int `json:"prophet_stories_read"`
	TagsExplored         int `json:"tags_explored"`
	AchievementsUnlocked int `json:"achievements_unlocked"`
	TotalXP              int `json:"total_xp"`

	// Lesson and path completions credited through the activity ledger. The
	// domain tables above may lag behind them, or the other way round.
	LessonsLogged int `json:"lessons_logged"`
	PathsLogged   int `json:"paths_logged"`

	Reading Streak `json:"reading_streak"`
	Sunnah  Streak `json:"sunnah_streak"`

	AllSahabaStoriesComplete  bool `json:"all_sahaba_stories_complete"`
	AllProphetStoriesComplete bool `json:"all_prophet_stories_complete"`

	AccountCreatedAt *time.Time `json:"account_created_at,omitempty"`
	ActiveDays       []Day      `json:"-"`

	// Degraded names the sources that failed and were defaulted this pass.
	Degraded []string `json:"degraded,omitempty"`
}

// Stat returns the value a Threshold criterion compares.
func (s *Snapshot) Stat(k StatKey) (int, bool) {
	switch k {
	case StatHadithRead:
		return s.HadithRead, true
	case StatNotes:
		return s.Notes, true
	case StatBookmarks:
		return s.Bookmarks, true
	case StatShares:
		return s.Shares, true
	case StatStreakDays:
		return s.Reading.Current, true
	case StatLongestStreak:
		return s.Reading.Longest, true
	case StatLessonsCompleted:
		return max(s.LessonsCompleted, s.LessonsLogged), true
	case StatPathsCompleted:
		return max(s.PathsCompleted, s.PathsLogged), true
	case StatStoriesCompleted:
		return s.StoriesCompleted, true
	case StatTagsExplored:
		return s.TagsExplored, true
	case StatQuizzesPassed:
		return s.QuizzesPassed, true
	case StatQuizzesCompleted:
		return s.QuizzesCompleted, true
	case StatSunnahPractices:
		return s.SunnahPractices, true
	case StatQuizPerfectScores:
		return s.QuizPerfectScores, true
	case StatProphetStoriesRead:
		return s.ProphetStoriesRead, true
	case StatSunnahStreak:
		return s.Sunnah.Current, true
	case StatAchievementsUnlocked:
		return s.AchievementsUnlocked, true
	}
	return 0, false
}
