package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hadithhub/logger"
	"hadithhub/metrics"
	"hadithhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultFetchTimeout      = 2 * time.Second
	DefaultEvaluationTimeout = 5 * time.Second
)

// Notifier receives the slugs granted in one pass. It must not block.
type Notifier interface {
	NotifyUnlocked(userID uuid.UUID, slugs []string)
}

type Options struct {
	FetchTimeout      time.Duration
	EvaluationTimeout time.Duration
	Notifier          Notifier
	Now               func() time.Time
}

// Engine is the single entry point for tracking and achievement checks.
type Engine struct {
	db          *gorm.DB
	log         *logger.Logger
	tracker     *Tracker
	stats       *Aggregator
	awards      *AwardLedger
	notifier    Notifier
	evalTimeout time.Duration
	now         func() time.Time
}

func NewEngine(db *gorm.DB, log *logger.Logger, opts Options) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.EvaluationTimeout <= 0 {
		opts.EvaluationTimeout = DefaultEvaluationTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		db:          db,
		log:         log.Named("progress"),
		tracker:     NewTracker(db, opts.Now),
		stats:       NewAggregator(db, log, opts.FetchTimeout, opts.Now),
		awards:      NewAwardLedger(db, opts.Now),
		notifier:    opts.Notifier,
		evalTimeout: opts.EvaluationTimeout,
		now:         opts.Now,
	}
}

// TrackResult is returned by TrackActivity. XPEarned is the direct activity
// reward only; achievement rewards are credited separately.
type TrackResult struct {
	Kind            ActivityKind `json:"activity_type"`
	XPEarned        int          `json:"xp_earned"`
	NewAchievements []string     `json:"new_achievements"`
	Duplicate       bool         `json:"duplicate"`
}

// TrackActivity records the activity and then runs an achievement check.
// Only recording errors are returned; a failed check is logged and yields an
// empty NewAchievements.
func (e *Engine) TrackActivity(ctx context.Context, userID uuid.UUID, kind ActivityKind, subjectID string) (TrackResult, error) {
	res := TrackResult{Kind: kind, NewAchievements: []string{}}

	rec, err := e.tracker.Record(ctx, userID, kind, subjectID)
	if err != nil {
		label := string(kind)
		if !kind.Valid() {
			label = "unknown"
		}
		metrics.RecordActivity(label, "error")
		return res, err
	}
	res.XPEarned = rec.CreditedXP
	res.Duplicate = rec.Duplicate
	if rec.Duplicate {
		metrics.RecordActivity(string(kind), "duplicate")
	} else {
		metrics.RecordActivity(string(kind), "recorded")
	}

	unlocked, err := e.CheckAchievements(ctx, userID)
	if err != nil {
		e.log.Warn("achievement check after activity failed", "user_id", userID, "kind", kind, "error", err)
		return res, nil
	}
	res.NewAchievements = unlocked
	return res, nil
}

// CheckAchievements gathers stats once, evaluates the active catalog once and
// grants what is satisfied. The list is never nil.
func (e *Engine) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.evalTimeout)
	defer cancel()

	unlocked := []string{}

	defs, err := e.Catalog(ctx)
	if err != nil && ctx.Err() != nil {
		metrics.RecordEvaluation("timeout", time.Since(start))
		e.log.Warn("evaluation deadline reached while loading catalog", "user_id", userID, "error", err)
		return unlocked, fmt.Errorf("%w: %w", ErrEvaluationTimeout, ctx.Err())
	}
	if err != nil {
		metrics.RecordEvaluation("catalog_unavailable", time.Since(start))
		e.log.Error("achievement catalog unavailable", "user_id", userID, "error", err)
		return unlocked, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	earned, err := e.earnedIDs(ctx, userID)
	if err != nil {
		metrics.RecordEvaluation("error", time.Since(start))
		return unlocked, fmt.Errorf("load earned achievements: %w", err)
	}

	snap := e.stats.Gather(ctx, userID)
	eval := Evaluate(defs, snap, earned)
	for _, def := range eval.Unknown {
		metrics.RecordUnknownCriterion(def.Slug)
		e.log.Warn("achievement has unknown criterion", "slug", def.Slug, "type", criterionType(def.Criterion))
	}

	result := "ok"
	if len(snap.Degraded) > 0 {
		result = "degraded"
	}
	var grantErr error
	for _, def := range eval.Satisfied {
		if ctx.Err() != nil {
			result = "timeout"
			e.log.Warn("evaluation deadline reached, deferring remaining grants",
				"user_id", userID, "granted", len(unlocked), "pending", len(eval.Satisfied)-len(unlocked))
			break
		}
		ok, err := e.awards.Grant(ctx, userID, def)
		if err != nil {
			if errors.Is(err, ErrAccountNotInitialized) {
				grantErr = err
				break
			}
			e.log.Error("grant failed", "user_id", userID, "slug", def.Slug, "error", err)
			continue
		}
		if ok {
			metrics.RecordGrant(def.Slug)
			unlocked = append(unlocked, def.Slug)
		}
	}
	if grantErr != nil {
		result = "error"
	}
	metrics.RecordEvaluation(result, time.Since(start))

	if len(unlocked) > 0 {
		e.log.Info("achievements unlocked", "user_id", userID, "slugs", unlocked)
		if e.notifier != nil {
			e.notifier.NotifyUnlocked(userID, unlocked)
		}
	}
	return unlocked, grantErr
}

// CheckAll re-checks every user that has a stats row. It stops at the first
// catalog failure; other per-user errors are logged and skipped.
func (e *Engine) CheckAll(ctx context.Context) (map[uuid.UUID][]string, error) {
	var ids []uuid.UUID
	if err := e.db.WithContext(ctx).Model(&models.UserStats{}).Order("user_id").Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make(map[uuid.UUID][]string)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		slugs, err := e.CheckAchievements(ctx, id)
		if err != nil {
			if errors.Is(err, ErrCatalogUnavailable) {
				return out, err
			}
			e.log.Warn("recheck failed", "user_id", id, "error", err)
			continue
		}
		if len(slugs) > 0 {
			out[id] = slugs
		}
	}
	return out, nil
}

// Catalog loads the active achievements in display order.
func (e *Engine) Catalog(ctx context.Context) ([]Definition, error) {
	var rows []models.Achievement
	if err := e.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	defs := make([]Definition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, DefinitionFromModel(row))
	}
	return defs, nil
}

func (e *Engine) earnedIDs(ctx context.Context, userID uuid.UUID) (map[uint]bool, error) {
	var ids []uint
	if err := e.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}
	earned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func criterionType(c Criterion) string {
	if c == nil {
		return ""
	}
	return c.Type()
}
