package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StatKey names a numeric snapshot value a Threshold criterion can compare.
// The key doubles as the criterion's "type" tag in the catalog JSON.
type StatKey string

const (
	StatHadithRead           StatKey = "hadith_read_count"
	StatNotes                StatKey = "notes_count"
	StatBookmarks            StatKey = "bookmarks_count"
	StatShares               StatKey = "shares"
	StatStreakDays           StatKey = "streak_days"
	StatLongestStreak        StatKey = "longest_streak_days"
	StatLessonsCompleted     StatKey = "lesson_complete"
	StatPathsCompleted       StatKey = "learning_path_complete"
	StatStoriesCompleted     StatKey = "story_complete"
	StatTagsExplored         StatKey = "tags_explored"
	StatQuizzesPassed        StatKey = "quizzes_passed"
	StatQuizzesCompleted     StatKey = "quizzes_completed"
	StatQuizPerfectScores    StatKey = "quiz_perfect_score"
	StatProphetStoriesRead   StatKey = "prophet_stories_read"
	StatSunnahStreak         StatKey = "sunnah_streak"
	StatSunnahPractices      StatKey = "sunnah_practice_count"
	StatAchievementsUnlocked StatKey = "achievements_unlocked"
)

// StatKeys lists every threshold-comparable stat.
func StatKeys() []StatKey {
	return []StatKey{
		StatHadithRead, StatNotes, StatBookmarks, StatShares, StatStreakDays,
		StatLongestStreak, StatLessonsCompleted, StatPathsCompleted,
		StatStoriesCompleted, StatTagsExplored, StatQuizzesPassed,
		StatQuizzesCompleted, StatQuizPerfectScores, StatProphetStoriesRead,
		StatSunnahStreak, StatSunnahPractices, StatAchievementsUnlocked,
	}
}

func (k StatKey) Valid() bool {
	for _, known := range StatKeys() {
		if k == known {
			return true
		}
	}
	return false
}

// Domain names a content set that can be completed in full.
type Domain string

const (
	DomainSahabaStories  Domain = "all_stories_complete"
	DomainProphetStories Domain = "all_prophet_stories_complete"
)

const (
	tagAccountAgeBefore    = "account_age_before"
	tagActiveDuringWindow  = "active_during_window"
	tagActiveDuringRamadan = "active_during_ramadan"
)

// Criterion is the closed set of unlock conditions. The unexported method
// keeps the set sealed to this package: adding a variant means implementing
// satisfiedBy, so no variant can be left unevaluated.
type Criterion interface {
	Type() string
	satisfiedBy(s *Snapshot) bool
}

// Threshold is satisfied when the stat reaches Min.
type Threshold struct {
	Stat StatKey
	Min  int
}

func (c Threshold) Type() string { return string(c.Stat) }

func (c Threshold) satisfiedBy(s *Snapshot) bool {
	v, ok := s.Stat(c.Stat)
	return ok && v >= c.Min
}

// DomainComplete is satisfied when every currently published item of the
// domain is completed. The flag is recomputed on each snapshot.
type DomainComplete struct {
	Domain Domain
}

func (c DomainComplete) Type() string { return string(c.Domain) }

func (c DomainComplete) satisfiedBy(s *Snapshot) bool {
	switch c.Domain {
	case DomainSahabaStories:
		return s.AllSahabaStoriesComplete
	case DomainProphetStories:
		return s.AllProphetStoriesComplete
	}
	return false
}

// AccountCreatedBefore rewards early adopters.
type AccountCreatedBefore struct {
	Cutoff time.Time
}

func (c AccountCreatedBefore) Type() string { return tagAccountAgeBefore }

func (c AccountCreatedBefore) satisfiedBy(s *Snapshot) bool {
	if s.AccountCreatedAt == nil {
		return false
	}
	return s.AccountCreatedAt.Before(c.Cutoff)
}

// ActiveBetween is satisfied by any recorded activity day in [From, To].
// Year is set for Ramadan windows, which are stored by year.
type ActiveBetween struct {
	Tag  string
	Year int
	From Day
	To   Day
}

func (c ActiveBetween) Type() string {
	if c.Tag == "" {
		return tagActiveDuringWindow
	}
	return c.Tag
}

func (c ActiveBetween) satisfiedBy(s *Snapshot) bool {
	for _, d := range s.ActiveDays {
		if d >= c.From && d <= c.To {
			return true
		}
	}
	return false
}

// Unknown stands in for an unrecognised tag or a malformed payload. It never
// unlocks anything.
type Unknown struct {
	Tag    string
	Reason string
}

func (c Unknown) Type() string { return c.Tag }

func (c Unknown) satisfiedBy(*Snapshot) bool { return false }

// ramadanWindows holds approximate Ramadan dates by Gregorian year.
var ramadanWindows = map[int][2]string{
	2025: {"2025-03-01", "2025-03-30"},
	2026: {"2026-02-18", "2026-03-19"},
	2027: {"2027-02-08", "2027-03-09"},
}

// RamadanWindow returns the activity window for a Gregorian year.
func RamadanWindow(year int) (from, to Day, ok bool) {
	w, ok := ramadanWindows[year]
	if !ok {
		return 0, 0, false
	}
	from, _ = ParseDay(w[0])
	to, _ = ParseDay(w[1])
	return from, to, true
}

type rawCriterion struct {
	Type      string `json:"type"`
	Threshold *int   `json:"threshold,omitempty"`
	Date      string `json:"date,omitempty"`
	Year      int    `json:"year,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
}

// ParseCriterion decodes the catalog JSON. It never fails: anything it cannot
// understand becomes Unknown so evaluation fails closed.
func ParseCriterion(data []byte) Criterion {
	var raw rawCriterion
	if err := json.Unmarshal(data, &raw); err != nil {
		return Unknown{Reason: fmt.Sprintf("decode criteria: %v", err)}
	}
	tag := strings.TrimSpace(raw.Type)

	if stat := StatKey(tag); stat.Valid() {
		if raw.Threshold == nil {
			return Unknown{Tag: tag, Reason: "threshold missing"}
		}
		return Threshold{Stat: stat, Min: *raw.Threshold}
	}

	switch tag {
	case string(DomainSahabaStories), string(DomainProphetStories):
		return DomainComplete{Domain: Domain(tag)}
	case tagAccountAgeBefore:
		cutoff, err := parseCutoff(raw.Date)
		if err != nil {
			return Unknown{Tag: tag, Reason: err.Error()}
		}
		return AccountCreatedBefore{Cutoff: cutoff}
	case tagActiveDuringRamadan:
		from, to, ok := RamadanWindow(raw.Year)
		if !ok {
			return Unknown{Tag: tag, Reason: fmt.Sprintf("no Ramadan window for year %d", raw.Year)}
		}
		return ActiveBetween{Tag: tag, Year: raw.Year, From: from, To: to}
	case tagActiveDuringWindow:
		from, errFrom := ParseDay(raw.From)
		to, errTo := ParseDay(raw.To)
		if err := errors.Join(errFrom, errTo); err != nil {
			return Unknown{Tag: tag, Reason: err.Error()}
		}
		return ActiveBetween{Tag: tag, From: from, To: to}
	}
	return Unknown{Tag: tag, Reason: "unrecognised criterion type"}
}

// EncodeCriterion is the inverse of ParseCriterion.
func EncodeCriterion(c Criterion) ([]byte, error) {
	var raw rawCriterion
	switch v := c.(type) {
	case Threshold:
		n := v.Min
		raw = rawCriterion{Type: string(v.Stat), Threshold: &n}
	case DomainComplete:
		raw = rawCriterion{Type: string(v.Domain)}
	case AccountCreatedBefore:
		raw = rawCriterion{Type: tagAccountAgeBefore, Date: v.Cutoff.UTC().Format(time.RFC3339)}
	case ActiveBetween:
		if v.Tag == tagActiveDuringRamadan {
			raw = rawCriterion{Type: tagActiveDuringRamadan, Year: v.Year}
			break
		}
		raw = rawCriterion{Type: tagActiveDuringWindow, From: v.From.String(), To: v.To.String()}
	default:
		return nil, fmt.Errorf("cannot encode criterion %q", c.Type())
	}
	return json.Marshal(raw)
}

// ValidateCriterion applies catalog-authoring rules.
func ValidateCriterion(c Criterion) error {
	switch v := c.(type) {
	case Threshold:
		if v.Min <= 0 {
			return fmt.Errorf("%s: threshold must be greater than zero", v.Stat)
		}
	case ActiveBetween:
		if v.From > v.To {
			return fmt.Errorf("%s: window starts after it ends", v.Type())
		}
	case AccountCreatedBefore:
		if v.Cutoff.IsZero() {
			return fmt.Errorf("%s: cutoff date missing", tagAccountAgeBefore)
		}
	case DomainComplete:
	case Unknown:
		if v.Tag == "" {
			return fmt.Errorf("criteria: %s", v.Reason)
		}
		return fmt.Errorf("criteria %q: %s", v.Tag, v.Reason)
	default:
		return fmt.Errorf("criteria %q: unsupported", c.Type())
	}
	return nil
}

func parseCutoff(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date missing")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
