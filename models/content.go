// models/content.go - Domain tables owned by the reading and learning features.
// The progress engine only reads them.
package models

import (
	"time"

	"github.com/google/uuid"
)

type QuizAttempt struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	LessonID         *uint     `gorm:"index" json:"lesson_id,omitempty"`
	LearningPathID   *uint     `json:"learning_path_id,omitempty"`
	QuizType         string    `gorm:"size:20;default:'lesson'" json:"quiz_type"`
	ScorePercent     int       `gorm:"not null;default:0" json:"score_percent"`
	Passed           bool      `gorm:"not null;default:false" json:"passed"`
	TotalQuestions   int       `gorm:"default:0" json:"total_questions"`
	CorrectAnswers   int       `gorm:"default:0" json:"correct_answers"`
	TimeTakenSeconds int       `gorm:"default:0" json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type LearningPath struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

type LearningLesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PathID    uint      `gorm:"not null;index" json:"path_id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (LearningLesson) TableName() string {
	return "learning_lessons"
}

// LearningProgress has one row per (user, lesson).
type LearningProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_learning_progress_user_lesson,priority:1" json:"user_id"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_learning_progress_user_lesson,priority:2" json:"lesson_id"`
	Status      string     `gorm:"size:20;not null;default:'in_progress'" json:"status"` // in_progress, completed
	QuizScore   *int       `json:"quiz_score,omitempty"`
	QuizPassed  bool       `gorm:"default:false" json:"quiz_passed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}

// Sahaba are the companion biographies ("stories").
type Sahaba struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Sahaba) TableName() string {
	return "sahaba"
}

type SahabaReadingProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sahaba_progress_user_story,priority:1" json:"user_id"`
	SahabaID    uint      `gorm:"not null;uniqueIndex:idx_sahaba_progress_user_story,priority:2" json:"sahaba_id"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SahabaReadingProgress) TableName() string {
	return "sahaba_reading_progress"
}

type Prophet struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Prophet) TableName() string {
	return "prophets"
}

type ProphetReadingProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prophet_progress_user_story,priority:1" json:"user_id"`
	ProphetID   uint      `gorm:"not null;uniqueIndex:idx_prophet_progress_user_story,priority:2" json:"prophet_id"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProphetReadingProgress) TableName() string {
	return "prophet_reading_progress"
}

type HadithView struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	HadithID string    `gorm:"size:64;not null" json:"hadith_id"`
	Tag      string    `gorm:"size:64;index" json:"tag"`
	ViewedAt time.Time `json:"viewed_at"`
}

func (HadithView) TableName() string {
	return "hadith_views"
}

// SunnahTracking records one practiced sunnah per user per day.
type SunnahTracking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sunnah_user_practice_day,priority:1" json:"user_id"`
	SunnahID      string    `gorm:"size:64;not null;uniqueIndex:idx_sunnah_user_practice_day,priority:2" json:"sunnah_id"`
	PracticedDate string    `gorm:"size:10;not null;uniqueIndex:idx_sunnah_user_practice_day,priority:3" json:"practiced_date"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at"`
}

func (SunnahTracking) TableName() string {
	return "sunnah_tracking"
}
