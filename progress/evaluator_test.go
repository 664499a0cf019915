package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateThresholdBoundary(t *testing.T) {
	defs := []Definition{{ID: 1, Slug: "first-steps", Criterion: Threshold{Stat: StatHadithRead, Min: 5}}}

	assert.Empty(t, Evaluate(defs, &Snapshot{HadithRead: 4}, nil).Satisfied)

	got := Evaluate(defs, &Snapshot{HadithRead: 5}, nil).Satisfied
	if assert.Len(t, got, 1) {
		assert.Equal(t, "first-steps", got[0].Slug)
	}
}

func TestEvaluateSkipsEarned(t *testing.T) {
	defs := []Definition{
		{ID: 1, Slug: "note-taker", Criterion: Threshold{Stat: StatNotes, Min: 1}},
		{ID: 2, Slug: "mystery", Criterion: Unknown{Tag: "moon_phase"}},
		{ID: 3, Slug: "broken", Criterion: nil},
	}
	snap := &Snapshot{Notes: 3}

	out := Evaluate(defs, snap, map[uint]bool{1: true, 3: true})
	assert.Empty(t, out.Satisfied)
	if assert.Len(t, out.Unknown, 1) {
		assert.Equal(t, "mystery", out.Unknown[0].Slug)
	}
}

func TestEvaluateStreaksAndDomains(t *testing.T) {
	defs := []Definition{
		{ID: 1, Slug: "week-streak", Criterion: Threshold{Stat: StatStreakDays, Min: 7}},
		{ID: 2, Slug: "sunnah-week", Criterion: Threshold{Stat: StatSunnahStreak, Min: 7}},
		{ID: 3, Slug: "companions", Criterion: DomainComplete{Domain: DomainSahabaStories}},
		{ID: 4, Slug: "prophets", Criterion: DomainComplete{Domain: DomainProphetStories}},
	}
	snap := &Snapshot{
		Reading:                  Streak{Current: 7, Longest: 9},
		Sunnah:                   Streak{Current: 6, Longest: 6},
		AllSahabaStoriesComplete: true,
	}

	var slugs []string
	for _, d := range Evaluate(defs, snap, nil).Satisfied {
		slugs = append(slugs, d.Slug)
	}
	assert.Equal(t, []string{"week-streak", "companions"}, slugs)
}

func TestSnapshotStatCoversEveryKey(t *testing.T) {
	snap := &Snapshot{}
	for _, k := range StatKeys() {
		_, ok := snap.Stat(k)
		assert.True(t, ok, "stat %s has no snapshot value", k)
	}
	_, ok := snap.Stat("moon_phase")
	assert.False(t, ok)
}
