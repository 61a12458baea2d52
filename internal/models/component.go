package models

import (
	"fmt"
	"time"
)

// ComponentStatus represents the lifecycle state of a component
type ComponentStatus string

const (
	ComponentStatusInstalled ComponentStatus = "installed"
	ComponentStatusSpare     ComponentStatus = "spare"
	ComponentStatusFailed    ComponentStatus = "failed"
	ComponentStatusRemoved   ComponentStatus = "removed"
	ComponentStatusDisposed  ComponentStatus = "disposed"
)

// Component represents a part installed in an asset or held as a spare
type Component struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	ComponentTag       string           `gorm:"uniqueIndex;not null" json:"component_tag"`
	ParentAssetID      *uint            `gorm:"index" json:"parent_asset_id,omitempty"`
	ParentAsset        *Asset           `gorm:"foreignKey:ParentAssetID;constraint:OnDelete:CASCADE" json:"parent_asset,omitempty"`
	ComponentTypeID    uint             `gorm:"not null;index" json:"component_type_id"`
	ComponentType      *ComponentType   `gorm:"foreignKey:ComponentTypeID" json:"component_type,omitempty"`
	Manufacturer       string           `json:"manufacturer,omitempty"`
	Model              string           `json:"model,omitempty"`
	SerialNumber       string           `gorm:"index" json:"serial_number,omitempty"`
	Specifications     string           `gorm:"type:text" json:"specifications,omitempty"` // e.g. "16GB", "1TB"
	PurchaseDate       *time.Time       `json:"purchase_date,omitempty"`
	WarrantyExpiryDate *time.Time       `json:"warranty_expiry_date,omitempty"`
	Status             ComponentStatus  `gorm:"not null;default:'installed';index" json:"status"`
	InstallationDate   *time.Time       `json:"installation_date,omitempty"`
	RemovalDate        *time.Time       `json:"removal_date,omitempty"`
	RequisitionID      *uint            `json:"requisition_id,omitempty"`
	Requisition        *Requisition     `gorm:"foreignKey:RequisitionID;constraint:OnDelete:SET NULL" json:"requisition,omitempty"`
	InvoiceID          *uint            `json:"invoice_id,omitempty"`
	Invoice            *PurchaseInvoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:SET NULL" json:"invoice,omitempty"`
	InvoiceLineItemID  *uint            `json:"invoice_line_item_id,omitempty"`
	InvoiceLineItem    *InvoiceLineItem `gorm:"foreignKey:InvoiceLineItemID;constraint:OnDelete:SET NULL" json:"invoice_line_item,omitempty"`
	Notes              string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// TableName ensures GORM uses the "components" table
func (Component) TableName() string {
	return "components"
}

// Validate checks the installed/parent-asset invariant
func (c *Component) Validate() error {
	if c.Status == ComponentStatusInstalled && c.ParentAssetID == nil {
		return fmt.Errorf("a component cannot be marked as installed without a parent asset")
	}
	return nil
}

func (c *Component) String() string {
	if c.ComponentType != nil {
		return fmt.Sprintf("%s (%s)", c.ComponentTag, c.ComponentType.TypeName)
	}
	return c.ComponentTag
}

// StatusDisplay returns the human-readable status label
func (c *Component) StatusDisplay() string {
	return componentStatusLabels[c.Status]
}

var componentStatusLabels = map[ComponentStatus]string{
	ComponentStatusInstalled: "Installed",
	ComponentStatusSpare:     "Spare",
	ComponentStatusFailed:    "Failed",
	ComponentStatusRemoved:   "Removed",
	ComponentStatusDisposed:  "Disposed",
}

// ValidComponentStatus reports whether s is a known component status
func ValidComponentStatus(s ComponentStatus) bool {
	_, ok := componentStatusLabels[s]
	return ok
}
