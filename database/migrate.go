// database/migrate.go - Database migration runner
package database

import (
	"fmt"
	"log"

	"hadithhub/models"

	"gorm.io/gorm"
)

// RunMigrations creates engine tables, the read-only domain tables and their indexes.
func RunMigrations(conn *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityLog{},
		&models.UserStats{},
	); err != nil {
		return fmt.Errorf("progress migrations: %w", err)
	}

	if err := conn.AutoMigrate(
		&models.QuizAttempt{},
		&models.LearningPath{},
		&models.LearningLesson{},
		&models.LearningProgress{},
		&models.Sahaba{},
		&models.SahabaReadingProgress{},
		&models.Prophet{},
		&models.ProphetReadingProgress{},
		&models.HadithView{},
		&models.SunnahTracking{},
	); err != nil {
		return fmt.Errorf("content migrations: %w", err)
	}

	if err := createIndexes(conn); err != nil {
		return err
	}

	log.Println("✅ All migrations completed successfully")
	return nil
}

// createIndexes adds the read-path indexes the stat aggregator relies on.
func createIndexes(conn *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_activity_user_date ON user_activity_log(user_id, activity_date)",
		"CREATE INDEX IF NOT EXISTS idx_achievements_active_order ON achievements(is_active, display_order)",
		"CREATE INDEX IF NOT EXISTS idx_user_achievements_new ON user_achievements(user_id, is_new)",
		"CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_passed ON quiz_attempts(user_id, passed)",
		"CREATE INDEX IF NOT EXISTS idx_learning_progress_user_status ON learning_progress(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_sunnah_user_date ON sunnah_tracking(user_id, practiced_date)",
	}
	for _, stmt := range statements {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
