package town

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"townManagerBot/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "town.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	err = db.AutoMigrate(
		&models.Structure{},
		&models.Milestone{},
		&models.Adventure{},
		&models.Participant{},
		&models.Vote{},
		&models.HistoryEntry{},
		&models.Guild{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	return db
}

func newTestTown(t *testing.T) (*Town, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db), db
}

func assertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}
