package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"hadithhub/config"
	"hadithhub/database"
	"hadithhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := database.Open(config.Database{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func TestDefaultCatalogIsValid(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	require.NoError(t, f.Validate())
	assert.GreaterOrEqual(t, len(f.Achievements), 20)

	var found bool
	for _, e := range f.Achievements {
		if e.Slug == "bookmark-collector" {
			found = true
			assert.Equal(t, "bookmarks_count", e.Criteria["type"])
			assert.Equal(t, 10, e.Criteria["threshold"])
		}
	}
	assert.True(t, found)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	f, err := Parse([]byte(`
achievements:
  - slug: dup
    name: One
    category: reading
    tier: 1
    criteria: {type: notes_count, threshold: 1}
  - slug: dup
    name: Two
    category: reading
    tier: 5
    criteria: {type: notes_count, threshold: 0}
  - slug: odd
    name: Odd
    category: cooking
    tier: 1
    xp_reward: -1
    criteria: {type: moon_phase}
  - slug: empty
    name: Empty
    category: special
    tier: 1
`))
	require.NoError(t, err)

	err = f.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	joined := verr.Error()
	assert.Contains(t, joined, "duplicate slug")
	assert.Contains(t, joined, "tier 5 outside 1-4")
	assert.Contains(t, joined, "threshold must be greater than zero")
	assert.Contains(t, joined, `unknown category "cooking"`)
	assert.Contains(t, joined, "xp_reward must not be negative")
	assert.Contains(t, joined, "moon_phase")
	assert.Contains(t, joined, "criteria missing")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("achievements:\n  - slug: x\n    reward: 5\n"))
	assert.Error(t, err)
}

func TestValidateAchievement(t *testing.T) {
	ok := models.Achievement{
		Slug: "reader", Name: "Reader", Category: "reading", Tier: 2,
		Criteria: datatypes.JSON(`{"type":"hadith_read_count","threshold":10}`),
	}
	assert.NoError(t, ValidateAchievement(ok))

	bad := ok
	bad.Criteria = datatypes.JSON(`{"type":"active_during_ramadan","year":1990}`)
	assert.Error(t, ValidateAchievement(bad))
}

func TestSyncUpsertsBySlug(t *testing.T) {
	db := newTestDB(t)
	f, err := Default()
	require.NoError(t, err)

	n, err := Sync(t.Context(), db, f)
	require.NoError(t, err)
	assert.Equal(t, len(f.Achievements), n)

	off := false
	f.Achievements[0].Name = "Renamed"
	f.Achievements[0].Active = &off
	f.Achievements[0].XPReward = 99
	_, err = Sync(t.Context(), db, f)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&count).Error)
	assert.EqualValues(t, len(f.Achievements), count)

	var row models.Achievement
	require.NoError(t, db.Where("slug = ?", f.Achievements[0].Slug).Take(&row).Error)
	assert.Equal(t, "Renamed", row.Name)
	assert.Equal(t, 99, row.XPReward)
	assert.False(t, row.IsActive)
}

func TestSyncRefusesInvalidCatalog(t *testing.T) {
	db := newTestDB(t)
	f := &File{Achievements: []Entry{{Slug: "x", Name: "X", Category: "reading", Tier: 1,
		Criteria: map[string]interface{}{"type": "notes_count", "threshold": 0}}}}

	_, err := Sync(t.Context(), db, f)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCanonicalCriteria(t *testing.T) {
	got, err := CanonicalCriteria([]byte(`{"type":"notes_count","threshold":3,"year":2026,"note":"x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"notes_count","threshold":3}`, string(got))

	got, err = CanonicalCriteria([]byte(`{"type":"active_during_ramadan","year":2026,"from":"2026-01-01"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"active_during_ramadan","year":2026}`, string(got))

	_, err = CanonicalCriteria([]byte(`{"type":"moon_phase"}`))
	assert.Error(t, err)

	m, err := Entry{Slug: "s", Name: "S", Category: "stories", Tier: 1,
		Criteria: map[string]interface{}{"type": "story_complete", "threshold": 5, "icon": "book"}}.Model()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"story_complete","threshold":5}`, string(m.Criteria))
}
