package progress

import "math"

// Level = floor(sqrt(xp/100)) + 1, so level n starts at (n-1)^2 * 100 XP.

var levelTitles = []string{
	"Seeker", "Student", "Learner", "Scholar", "Muhadith",
	"Expert", "Master", "Sage", "Luminary", "Guardian",
}

// LevelInfo is the player-facing view of total XP.
type LevelInfo struct {
	Level              int    `json:"level"`
	Title              string `json:"title"`
	CurrentXP          int    `json:"current_xp"`
	XPForCurrentLevel  int    `json:"xp_for_current_level"`
	XPForNextLevel     int    `json:"xp_for_next_level"`
	ProgressCurrent    int    `json:"progress_current"`
	ProgressRequired   int    `json:"progress_required"`
	ProgressPercentage int    `json:"progress_percentage"`
}

func CalculateLevel(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	level := int(math.Floor(math.Sqrt(float64(totalXP)/100))) + 1
	// guard float rounding at exact squares
	for XPForLevel(level+1) <= totalXP {
		level++
	}
	for level > 1 && XPForLevel(level) > totalXP {
		level--
	}
	return level
}

func XPForLevel(level int) int {
	return (level - 1) * (level - 1) * 100
}

func XPForNextLevel(level int) int {
	return level * level * 100
}

func LevelTitle(level int) string {
	if level < 1 {
		return levelTitles[0]
	}
	if level > len(levelTitles) {
		return levelTitles[len(levelTitles)-1]
	}
	return levelTitles[level-1]
}

// TierLabel names an achievement tier; unknown tiers get "".
func TierLabel(tier int) string {
	switch tier {
	case 1:
		return "Bronze"
	case 2:
		return "Silver"
	case 3:
		return "Gold"
	case 4:
		return "Platinum"
	default:
		return ""
	}
}

func GetLevelInfo(totalXP int) LevelInfo {
	level := CalculateLevel(totalXP)
	from, to := XPForLevel(level), XPForNextLevel(level)
	info := LevelInfo{
		Level:             level,
		Title:             LevelTitle(level),
		CurrentXP:         totalXP,
		XPForCurrentLevel: from,
		XPForNextLevel:    to,
		ProgressCurrent:   totalXP - from,
		ProgressRequired:  to - from,
	}
	if info.ProgressRequired > 0 {
		info.ProgressPercentage = int(math.Round(float64(info.ProgressCurrent) / float64(info.ProgressRequired) * 100))
	} else {
		info.ProgressPercentage = 100
	}
	return info
}
