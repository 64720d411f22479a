package town

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})

	return gormDB, mock, err
}

// The level update must be conditional on the level the caller read, so a
// zero-row result maps to ErrUpgradeConflict rather than a silent no-op.
func TestSetLevelRowCountMapping(t *testing.T) {
	t.Run("Update lands", func(t *testing.T) {
		db, mock, err := newMockDB()
		if err != nil {
			t.Fatalf("Failed to create mock DB: %v", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			sqlDB.Close()
		}()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `structures` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		structures := &Structures{db: db}
		if err := structures.SetLevel("guild1", 7, 3, 12); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})

	t.Run("Stale level affects zero rows", func(t *testing.T) {
		db, mock, err := newMockDB()
		if err != nil {
			t.Fatalf("Failed to create mock DB: %v", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			sqlDB.Close()
		}()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `structures` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		structures := &Structures{db: db}
		err = structures.SetLevel("guild1", 7, 3, 12)
		if !errors.Is(err, ErrUpgradeConflict) {
			t.Errorf("Expected ErrUpgradeConflict, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}
