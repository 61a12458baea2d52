package models

import "time"

// Setting keys stored in app_settings
const (
	SettingKeyInstanceID = "instance_id"
)

// AppSetting is a server-side key/value setting (instance identity and
// similar operational state, not user preferences).
type AppSetting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "app_settings" table
func (AppSetting) TableName() string {
	return "app_settings"
}
