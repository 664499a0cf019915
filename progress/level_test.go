package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	cases := map[int]int{
		0:     1,
		-20:   1,
		99:    1,
		100:   2,
		399:   2,
		400:   3,
		900:   4,
		1600:  5,
		10000: 11,
	}
	for xp, want := range cases {
		assert.Equal(t, want, CalculateLevel(xp), "xp=%d", xp)
	}
}

func TestGetLevelInfo(t *testing.T) {
	info := GetLevelInfo(250)
	assert.Equal(t, LevelInfo{
		Level:              2,
		Title:              "Student",
		CurrentXP:          250,
		XPForCurrentLevel:  100,
		XPForNextLevel:     400,
		ProgressCurrent:    150,
		ProgressRequired:   300,
		ProgressPercentage: 50,
	}, info)
}

func TestLevelTitleAndTier(t *testing.T) {
	assert.Equal(t, "Seeker", LevelTitle(1))
	assert.Equal(t, "Guardian", LevelTitle(10))
	assert.Equal(t, "Guardian", LevelTitle(42))
	assert.Equal(t, "Gold", TierLabel(3))
	assert.Equal(t, "", TierLabel(9))
}
