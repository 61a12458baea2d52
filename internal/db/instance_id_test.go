package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/castellan-dev/castellan/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.AppSetting{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestGetOrCreateInstanceID_CreatesNewID(t *testing.T) {
	db := setupTestDB(t)

	instanceID, err := GetOrCreateInstanceID(db)
	if err != nil {
		t.Fatalf("GetOrCreateInstanceID failed: %v", err)
	}

	if _, err := uuid.Parse(instanceID); err != nil {
		t.Errorf("instance ID is not a valid UUID: %v", err)
	}

	var setting models.AppSetting
	err = db.Where("key = ?", models.SettingKeyInstanceID).First(&setting).Error
	if err != nil {
		t.Fatalf("failed to query app settings: %v", err)
	}
	if setting.Value != instanceID {
		t.Errorf("stored instance ID mismatch: got %s, want %s", setting.Value, instanceID)
	}
}

func TestGetOrCreateInstanceID_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	id1, err := GetOrCreateInstanceID(db)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	id2, err := GetOrCreateInstanceID(db)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if id1 != id2 {
		t.Errorf("instance ID changed between calls: %s, %s", id1, id2)
	}
}

func TestGetInstanceID_ErrorsWhenNotInitialized(t *testing.T) {
	db := setupTestDB(t)

	if _, err := GetInstanceID(db); err == nil {
		t.Error("GetInstanceID should error when instance ID is not initialized")
	}
}
