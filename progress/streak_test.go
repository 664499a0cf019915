package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, s string) Day {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestDayRoundTrip(t *testing.T) {
	d := mustDay(t, "2026-03-01")
	assert.Equal(t, "2026-03-01", d.String())
	assert.Equal(t, mustDay(t, "2026-02-28")+1, d)
}

func TestComputeStreak(t *testing.T) {
	d := mustDay(t, "2026-05-10")

	tests := []struct {
		name  string
		days  []Day
		today Day
		want  Streak
	}{
		{name: "empty", days: nil, today: d, want: Streak{}},
		{name: "today only", days: []Day{d}, today: d, want: Streak{Current: 1, Longest: 1}},
		{name: "yesterday keeps streak alive", days: []Day{d - 1, d - 2}, today: d, want: Streak{Current: 2, Longest: 2}},
		{name: "two day gap breaks current", days: []Day{d, d + 1}, today: d + 3, want: Streak{Current: 0, Longest: 2}},
		{name: "as of next day", days: []Day{d, d + 1}, today: d + 1, want: Streak{Current: 2, Longest: 2}},
		{name: "duplicates and order ignored", days: []Day{d - 2, d, d - 1, d, d - 1}, today: d, want: Streak{Current: 3, Longest: 3}},
		{name: "longest elsewhere in history", days: []Day{d, d - 1, d - 10, d - 11, d - 12, d - 13}, today: d, want: Streak{Current: 2, Longest: 4}},
		{name: "future days ignored", days: []Day{d + 5, d}, today: d, want: Streak{Current: 1, Longest: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.days, tt.today))
		})
	}
}

func TestParseDaysCountsMalformed(t *testing.T) {
	days, bad := parseDays([]string{"2026-01-01", "yesterday", "2026-01-02"})
	assert.Equal(t, 1, bad)
	assert.Len(t, days, 2)
}
