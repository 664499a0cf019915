// Package catalog loads achievement definitions from YAML files and keeps the
// achievements table in line with them.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"hadithhub/models"
	"hadithhub/progress"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var categories = map[string]bool{
	"reading":  true,
	"streak":   true,
	"social":   true,
	"learning": true,
	"stories":  true,
	"special":  true,
}

// Entry is one achievement as authored in a catalog file.
type Entry struct {
	Slug         string                 `yaml:"slug"`
	Name         string                 `yaml:"name"`
	Description  string                 `yaml:"description"`
	Category     string                 `yaml:"category"`
	Tier         int                    `yaml:"tier"`
	Icon         string                 `yaml:"icon"`
	XPReward     int                    `yaml:"xp_reward"`
	DisplayOrder int                    `yaml:"display_order"`
	Active       *bool                  `yaml:"active"`
	Criteria     map[string]interface{} `yaml:"criteria"`
}

type File struct {
	Achievements []Entry `yaml:"achievements"`
}

//go:embed achievements.yaml
var defaultCatalog []byte

// Default is the catalog shipped with the binary.
func Default() (*File, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &f, nil
}

func (e Entry) IsActive() bool {
	return e.Active == nil || *e.Active
}

func (e Entry) criteriaJSON() ([]byte, error) {
	if len(e.Criteria) == 0 {
		return nil, errors.New("criteria missing")
	}
	return json.Marshal(e.Criteria)
}

// CanonicalCriteria re-encodes a valid criteria payload in its stored form,
// dropping fields the criterion does not use.
func CanonicalCriteria(raw []byte) (datatypes.JSON, error) {
	c := progress.ParseCriterion(raw)
	if err := progress.ValidateCriterion(c); err != nil {
		return nil, err
	}
	out, err := progress.EncodeCriterion(c)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(out), nil
}

// Model converts the entry to its table row. The ID is left zero. Invalid
// criteria are kept as written so Validate can report them.
func (e Entry) Model() (models.Achievement, error) {
	raw, err := e.criteriaJSON()
	if err != nil {
		return models.Achievement{}, fmt.Errorf("%s: %w", e.Slug, err)
	}
	if canonical, err := CanonicalCriteria(raw); err == nil {
		raw = canonical
	}
	return models.Achievement{
		Slug:         e.Slug,
		Name:         e.Name,
		Description:  e.Description,
		Category:     e.Category,
		Tier:         e.Tier,
		Icon:         e.Icon,
		XPReward:     e.XPReward,
		Criteria:     datatypes.JSON(raw),
		IsActive:     e.IsActive(),
		DisplayOrder: e.DisplayOrder,
	}, nil
}

// ValidationError collects every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog invalid: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the whole file: unique slugs plus every per-entry rule.
func (f *File) Validate() error {
	var problems []string
	seen := make(map[string]int, len(f.Achievements))
	for i, e := range f.Achievements {
		label := e.Slug
		if label == "" {
			label = fmt.Sprintf("entry #%d", i+1)
		}
		if prev, ok := seen[e.Slug]; ok && e.Slug != "" {
			problems = append(problems, fmt.Sprintf("%s: duplicate slug (first at entry #%d)", label, prev+1))
		} else {
			seen[e.Slug] = i
		}

		m, err := e.Model()
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		for _, p := range achievementProblems(m) {
			problems = append(problems, label+": "+p)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateAchievement applies the authoring rules to a single row, as the
// admin API receives it.
func ValidateAchievement(a models.Achievement) error {
	if problems := achievementProblems(a); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func achievementProblems(a models.Achievement) []string {
	var problems []string
	if strings.TrimSpace(a.Slug) == "" {
		problems = append(problems, "slug is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !categories[a.Category] {
		problems = append(problems, fmt.Sprintf("unknown category %q", a.Category))
	}
	if a.Tier < 1 || a.Tier > 4 {
		problems = append(problems, fmt.Sprintf("tier %d outside 1-4", a.Tier))
	}
	if a.XPReward < 0 {
		problems = append(problems, "xp_reward must not be negative")
	}
	if err := progress.ValidateCriterion(progress.ParseCriterion(a.Criteria)); err != nil {
		problems = append(problems, err.Error())
	}
	return problems
}

// Sync upserts every entry by slug. Rows whose slug is not in the file are
// left alone; retire them with active: false.
func Sync(ctx context.Context, db *gorm.DB, f *File) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	rows := make([]models.Achievement, 0, len(f.Achievements))
	for _, e := range f.Achievements {
		m, err := e.Model()
		if err != nil {
			return 0, err
		}
		rows = append(rows, m)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category", "tier", "icon",
				"xp_reward", "criteria", "is_active", "display_order", "updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("sync catalog: %w", err)
	}
	return len(rows), nil
}
