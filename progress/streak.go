package progress

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date counted in days since 1970-01-01. Arithmetic on Day
// is exact: consecutive dates differ by one regardless of time zone or DST.
type Day int

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return 0, err
	}
	return DayOf(t), nil
}

// Time is midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak derives the current and longest consecutive-day runs from a
// set of activity days. Input order and duplicates do not matter; days after
// today are ignored. The current streak is 0 unless the latest day is today
// or yesterday.
func ComputeStreak(days []Day, today Day) Streak {
	uniq := make([]Day, 0, len(days))
	seen := make(map[Day]struct{}, len(days))
	for _, d := range days {
		if d > today {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}
	if len(uniq) == 0 {
		return Streak{}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] > uniq[j] })

	var s Streak
	run := 1
	s.Longest = 1
	for i := 1; i < len(uniq); i++ {
		if uniq[i-1]-uniq[i] == 1 {
			run++
			if run > s.Longest {
				s.Longest = run
			}
		} else {
			run = 1
		}
	}

	if today-uniq[0] > 1 {
		return s
	}
	s.Current = 1
	for i := 1; i < len(uniq) && uniq[i-1]-uniq[i] == 1; i++ {
		s.Current++
	}
	return s
}

// parseDays converts stored YYYY-MM-DD strings, skipping malformed rows.
func parseDays(raw []string) (days []Day, bad int) {
	days = make([]Day, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDay(s)
		if err != nil {
			bad++
			continue
		}
		days = append(days, d)
	}
	return days, bad
}
