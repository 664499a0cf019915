package progress

import (
	"fmt"
	"strings"
)

// ActivityKind enumerates the trackable user actions.
type ActivityKind string

const (
	KindRead           ActivityKind = "hadith_read"
	KindBookmark       ActivityKind = "bookmark"
	KindNote           ActivityKind = "note"
	KindShare          ActivityKind = "share"
	KindStoryComplete  ActivityKind = "story_complete"
	KindQuizComplete   ActivityKind = "quiz_complete"
	KindLessonComplete ActivityKind = "lesson_complete"
	KindPathComplete   ActivityKind = "path_complete"
	KindSunnahPractice ActivityKind = "sunnah_practice"
)

type activityRule struct {
	counter string // user_stats column
	xp      int
}

var activityRules = map[ActivityKind]activityRule{
	KindRead:           {counter: "hadith_read_count", xp: 5},
	KindBookmark:       {counter: "bookmarks_count", xp: 10},
	KindNote:           {counter: "notes_count", xp: 15},
	KindShare:          {counter: "shares_count", xp: 10},
	KindStoryComplete:  {counter: "stories_completed", xp: 50},
	KindQuizComplete:   {counter: "quizzes_completed", xp: 30},
	KindLessonComplete: {counter: "lessons_completed", xp: 25},
	KindPathComplete:   {counter: "paths_completed", xp: 0},
	KindSunnahPractice: {counter: "sunnah_practice_count", xp: 10},
}

// Names older clients still send.
var activityAliases = map[string]ActivityKind{
	"read":             KindRead,
	"read_hadith":      KindRead,
	"hadith_save":      KindBookmark,
	"bookmarks":        KindBookmark,
	"note_written":     KindNote,
	"hadith_shared":    KindShare,
	"complete_story":   KindStoryComplete,
	"story_completed":  KindStoryComplete,
	"quiz_completed":   KindQuizComplete,
	"lesson_completed": KindLessonComplete,
	"path_completed":   KindPathComplete,
	"sunnah_tracked":   KindSunnahPractice,
}

// ParseActivityKind accepts canonical names and legacy aliases.
func ParseActivityKind(raw string) (ActivityKind, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if k := ActivityKind(s); k.Valid() {
		return k, nil
	}
	if k, ok := activityAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivity, raw)
}

func (k ActivityKind) Valid() bool {
	_, ok := activityRules[k]
	return ok
}

// XP is the direct experience reward for one new activity of this kind.
func (k ActivityKind) XP() int {
	return activityRules[k].xp
}

func (k ActivityKind) counterColumn() string {
	return activityRules[k].counter
}

// ActivityKinds lists every kind in a stable order.
func ActivityKinds() []ActivityKind {
	return []ActivityKind{
		KindRead, KindBookmark, KindNote, KindShare, KindStoryComplete,
		KindQuizComplete, KindLessonComplete, KindPathComplete, KindSunnahPractice,
	}
}
