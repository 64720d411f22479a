package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"townManagerBot/models"
)

// RunLegacyBackfillMigration fixes up rows imported from older databases
// that predate the category and reset-marker columns. Runs once; the
// Migration row records completion.
func RunLegacyBackfillMigration(db *gorm.DB) error {
	var existingMigration models.Migration
	result := db.Where("name = ?", "legacy_town_backfill").First(&existingMigration)
	if result.Error == nil && existingMigration.ID != 0 {
		log.Println("Legacy town backfill migration has already been executed. Skipping.")
		return nil
	}

	log.Println("Starting legacy town backfill migration...")

	if err := db.Model(&models.Structure{}).
		Where("category = '' OR category IS NULL").
		Update("category", "General").Error; err != nil {
		return fmt.Errorf("backfilling categories: %v", err)
	}

	if err := db.Model(&models.Structure{}).
		Where("level < 1 OR level IS NULL").
		Update("level", 1).Error; err != nil {
		return fmt.Errorf("backfilling levels: %v", err)
	}

	if err := db.Model(&models.Structure{}).
		Where("max_level < 1 OR max_level IS NULL").
		Update("max_level", 10).Error; err != nil {
		return fmt.Errorf("backfilling max levels: %v", err)
	}

	if err := db.Model(&models.Structure{}).
		Where("last_reset_adventure IS NULL").
		Update("last_reset_adventure", 0).Error; err != nil {
		return fmt.Errorf("backfilling reset markers: %v", err)
	}

	if err := db.Model(&models.Vote{}).
		Where("votes < 1 OR votes IS NULL").
		Update("votes", 1).Error; err != nil {
		return fmt.Errorf("backfilling vote counts: %v", err)
	}

	migration := models.Migration{
		Name:       "legacy_town_backfill",
		ExecutedAt: time.Now(),
	}
	if err := db.Create(&migration).Error; err != nil {
		return fmt.Errorf("recording migration: %v", err)
	}

	log.Println("Legacy town backfill migration completed.")
	return nil
}
