package models

import (
	"fmt"
	"time"
)

// AssetModel represents a specific product model, e.g. "MacBook Pro 14".
// Manufacturer may be blank for custom builds or unidentified hardware.
type AssetModel struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CategoryID   uint      `gorm:"not null;index;uniqueIndex:idx_asset_models_unique" json:"category_id"`
	Category     *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Manufacturer string    `gorm:"uniqueIndex:idx_asset_models_unique" json:"manufacturer,omitempty"`
	ModelName    string    `gorm:"not null;uniqueIndex:idx_asset_models_unique" json:"model_name"`
	ModelNumber  string    `json:"model_number,omitempty"` // official part number from the manufacturer
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "asset_models" table
func (AssetModel) TableName() string {
	return "asset_models"
}

func (m *AssetModel) String() string {
	if m.Manufacturer != "" {
		return fmt.Sprintf("%s %s", m.Manufacturer, m.ModelName)
	}
	return m.ModelName
}
