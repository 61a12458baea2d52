package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
)

// GetOrCreateInstanceID retrieves the stable instance identifier from the
// database, generating and storing one on first startup. The ID shows up in
// the health endpoint so operators can tell deployments apart.
func GetOrCreateInstanceID(db *gorm.DB) (string, error) {
	var setting models.AppSetting

	err := db.Where("key = ?", models.SettingKeyInstanceID).First(&setting).Error
	if err == nil {
		return setting.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to query app settings: %w", err)
	}

	instanceID := uuid.New().String()
	setting = models.AppSetting{
		Key:   models.SettingKeyInstanceID,
		Value: instanceID,
	}
	if err := db.Create(&setting).Error; err != nil {
		return "", fmt.Errorf("failed to store instance ID: %w", err)
	}

	slog.Info("Generated new instance ID", "instance_id", instanceID)
	return instanceID, nil
}

// GetInstanceID retrieves the instance identifier, erroring when it has not
// been initialized yet.
func GetInstanceID(db *gorm.DB) (string, error) {
	var setting models.AppSetting

	err := db.Where("key = ?", models.SettingKeyInstanceID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("instance ID not initialized")
		}
		return "", fmt.Errorf("failed to query app settings: %w", err)
	}

	return setting.Value, nil
}
