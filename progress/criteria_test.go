package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Criterion
	}{
		{name: "threshold", json: `{"type":"bookmarks_count","threshold":10}`, want: Threshold{Stat: StatBookmarks, Min: 10}},
		{name: "sahaba domain", json: `{"type":"all_stories_complete"}`, want: DomainComplete{Domain: DomainSahabaStories}},
		{name: "prophet domain", json: `{"type":"all_prophet_stories_complete"}`, want: DomainComplete{Domain: DomainProphetStories}},
		{
			name: "account age",
			json: `{"type":"account_age_before","date":"2026-06-01"}`,
			want: AccountCreatedBefore{Cutoff: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "window",
			json: `{"type":"active_during_window","from":"2026-01-01","to":"2026-01-31"}`,
			want: ActiveBetween{Tag: "active_during_window", From: mustDay(t, "2026-01-01"), To: mustDay(t, "2026-01-31")},
		},
		{
			name: "ramadan",
			json: `{"type":"active_during_ramadan","year":2026}`,
			want: ActiveBetween{Tag: "active_during_ramadan", Year: 2026, From: mustDay(t, "2026-02-18"), To: mustDay(t, "2026-03-19")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCriterion([]byte(tt.json)))
		})
	}
}

func TestParseCriterionFailsClosed(t *testing.T) {
	inputs := map[string]string{
		"unknown tag":       `{"type":"moon_phase","threshold":3}`,
		"missing threshold": `{"type":"notes_count"}`,
		"bad json":          `{"type":`,
		"unknown year":      `{"type":"active_during_ramadan","year":1999}`,
		"bad window":        `{"type":"active_during_window","from":"soon","to":"2026-01-31"}`,
		"bad cutoff":        `{"type":"account_age_before","date":"next week"}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			c := ParseCriterion([]byte(in))
			require.IsType(t, Unknown{}, c)
			assert.False(t, c.satisfiedBy(&Snapshot{Notes: 1000}))
		})
	}
}

func TestEncodeCriterionRoundTrip(t *testing.T) {
	for _, c := range []Criterion{
		Threshold{Stat: StatStreakDays, Min: 7},
		DomainComplete{Domain: DomainProphetStories},
		AccountCreatedBefore{Cutoff: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		ParseCriterion([]byte(`{"type":"active_during_ramadan","year":2027}`)),
		ParseCriterion([]byte(`{"type":"active_during_window","from":"2026-06-01","to":"2026-06-30"}`)),
	} {
		data, err := EncodeCriterion(c)
		require.NoError(t, err)
		assert.Equal(t, c, ParseCriterion(data))
	}

	data, err := EncodeCriterion(ParseCriterion([]byte(`{"type":"active_during_ramadan","year":2026}`)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"active_during_ramadan","year":2026}`, string(data))

	_, err = EncodeCriterion(Unknown{Tag: "x"})
	assert.Error(t, err)
}

func TestValidateCriterion(t *testing.T) {
	assert.NoError(t, ValidateCriterion(Threshold{Stat: StatNotes, Min: 1}))
	assert.Error(t, ValidateCriterion(Threshold{Stat: StatNotes, Min: 0}))
	assert.Error(t, ValidateCriterion(ActiveBetween{From: 10, To: 5}))
	assert.Error(t, ValidateCriterion(AccountCreatedBefore{}))
	assert.Error(t, ValidateCriterion(Unknown{Tag: "moon_phase", Reason: "unrecognised criterion type"}))
	assert.NoError(t, ValidateCriterion(DomainComplete{Domain: DomainSahabaStories}))
}

func TestAccountCreatedBefore(t *testing.T) {
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	early := cutoff.Add(-time.Hour)
	late := cutoff.Add(time.Hour)
	c := AccountCreatedBefore{Cutoff: cutoff}

	assert.True(t, c.satisfiedBy(&Snapshot{AccountCreatedAt: &early}))
	assert.False(t, c.satisfiedBy(&Snapshot{AccountCreatedAt: &late}))
	assert.False(t, c.satisfiedBy(&Snapshot{}))
}

func TestActiveBetween(t *testing.T) {
	from, to, ok := RamadanWindow(2026)
	require.True(t, ok)
	c := ActiveBetween{Tag: "active_during_ramadan", From: from, To: to}

	assert.True(t, c.satisfiedBy(&Snapshot{ActiveDays: []Day{mustDay(t, "2026-03-19")}}))
	assert.True(t, c.satisfiedBy(&Snapshot{ActiveDays: []Day{mustDay(t, "2026-01-01"), from}}))
	assert.False(t, c.satisfiedBy(&Snapshot{ActiveDays: []Day{mustDay(t, "2026-03-20")}}))
	assert.False(t, c.satisfiedBy(&Snapshot{}))
}
