package models

import (
	"fmt"
	"time"
)

// MaintenanceType distinguishes repairs from upgrades
type MaintenanceType string

const (
	MaintenanceTypeRepair  MaintenanceType = "repair"
	MaintenanceTypeUpgrade MaintenanceType = "upgrade"
)

// MaintenanceRecord represents a service event on an asset
type MaintenanceRecord struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	AssetID             uint            `gorm:"not null;index" json:"asset_id"`
	Asset               *Asset          `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
	MaintenanceType     MaintenanceType `gorm:"not null" json:"maintenance_type"`
	PerformedBy         string          `json:"performed_by,omitempty"`
	MaintenanceDate     time.Time       `gorm:"not null" json:"maintenance_date"`
	Cost                *float64        `gorm:"type:decimal(10,2)" json:"cost,omitempty"`
	Description         string          `gorm:"type:text" json:"description,omitempty"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// TableName ensures GORM uses the "maintenance_records" table
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

func (m *MaintenanceRecord) String() string {
	return fmt.Sprintf("asset %d - %s on %s", m.AssetID, m.MaintenanceType, m.MaintenanceDate.Format("2006-01-02"))
}
