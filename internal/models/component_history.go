package models

import (
	"fmt"
	"time"
)

// ComponentAction represents what happened to a component
type ComponentAction string

const (
	ComponentActionInstalled ComponentAction = "installed"
	ComponentActionRemoved   ComponentAction = "removed"
	ComponentActionReplaced  ComponentAction = "replaced"
	ComponentActionUpgraded  ComponentAction = "upgraded"
	ComponentActionFailed    ComponentAction = "failed"
)

// ComponentHistory records install/remove/replace events for a component
type ComponentHistory struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	ComponentID         uint            `gorm:"not null;index" json:"component_id"`
	Component           *Component      `gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE" json:"component,omitempty"`
	ParentAssetID       uint            `gorm:"not null;index" json:"parent_asset_id"`
	ParentAsset         *Asset          `gorm:"foreignKey:ParentAssetID;constraint:OnDelete:CASCADE" json:"parent_asset,omitempty"`
	Action              ComponentAction `gorm:"not null" json:"action"`
	ActionDate          time.Time       `gorm:"not null" json:"action_date"`
	PerformedByID       *uint           `json:"performed_by_id,omitempty"`
	PerformedBy         *Employee       `gorm:"foreignKey:PerformedByID;constraint:OnDelete:SET NULL" json:"performed_by,omitempty"`
	Reason              string          `gorm:"type:text" json:"reason,omitempty"`
	PreviousComponentID *uint           `json:"previous_component_id,omitempty"`
	PreviousComponent   *Component      `gorm:"foreignKey:PreviousComponentID;constraint:OnDelete:SET NULL" json:"previous_component,omitempty"`
	Notes               string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName ensures GORM uses the "component_history" table
func (ComponentHistory) TableName() string {
	return "component_history"
}

func (h *ComponentHistory) String() string {
	return fmt.Sprintf("component %d - %s on %s", h.ComponentID, h.Action, h.ActionDate.Format("2006-01-02"))
}

// ActionDisplay returns the human-readable action label
func (h *ComponentHistory) ActionDisplay() string {
	return componentActionLabels[h.Action]
}

var componentActionLabels = map[ComponentAction]string{
	ComponentActionInstalled: "Installed",
	ComponentActionRemoved:   "Removed",
	ComponentActionReplaced:  "Replaced",
	ComponentActionUpgraded:  "Upgraded",
	ComponentActionFailed:    "Failed",
}
