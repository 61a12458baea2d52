package models

import (
	"fmt"
	"time"
)

// AssetStatus represents the lifecycle state of an asset
type AssetStatus string

const (
	AssetStatusPending  AssetStatus = "pending"
	AssetStatusActive   AssetStatus = "active"
	AssetStatusInRepair AssetStatus = "in_repair"
	AssetStatusRetired  AssetStatus = "retired"
	AssetStatusDisposed AssetStatus = "disposed"
	AssetStatusInactive AssetStatus = "inactive"
)

// AssetStatuses lists every valid asset status
var AssetStatuses = []AssetStatus{
	AssetStatusPending,
	AssetStatusActive,
	AssetStatusInRepair,
	AssetStatusRetired,
	AssetStatusDisposed,
	AssetStatusInactive,
}

// Asset represents a physical or virtual asset.
// An asset is assigned either to an employee or to a location, never both;
// the tag is generated from the prefix configuration when left blank.
type Asset struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	CompanyID          *uint            `gorm:"index" json:"company_id,omitempty"`
	Company            *Company         `gorm:"foreignKey:CompanyID;constraint:OnDelete:SET NULL" json:"company,omitempty"`
	AssetTag           string           `gorm:"uniqueIndex;not null" json:"asset_tag"`
	AssetModelID       uint             `gorm:"not null;index" json:"asset_model_id"`
	AssetModel         *AssetModel      `gorm:"foreignKey:AssetModelID" json:"asset_model,omitempty"`
	Notes              string           `gorm:"type:text" json:"notes,omitempty"`
	SerialNumber       string           `gorm:"index" json:"serial_number,omitempty"`
	Attributes         map[string]any   `gorm:"serializer:json" json:"attributes,omitempty"`
	PurchaseDate       *time.Time       `json:"purchase_date,omitempty"`
	PurchaseCost       *float64         `gorm:"type:decimal(10,2)" json:"purchase_cost,omitempty"`
	WarrantyExpiryDate *time.Time       `json:"warranty_expiry_date,omitempty"`
	Status             AssetStatus      `gorm:"not null;default:'pending';index" json:"status"`
	LocationID         *uint            `json:"location_id,omitempty"`
	Location           *Location        `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	AssignedToID       *uint            `json:"assigned_to_id,omitempty"`
	AssignedTo         *Employee        `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	RequisitionID      *uint            `json:"requisition_id,omitempty"`
	Requisition        *Requisition     `gorm:"foreignKey:RequisitionID;constraint:OnDelete:SET NULL" json:"requisition,omitempty"`
	InvoiceID          *uint            `json:"invoice_id,omitempty"`
	Invoice            *PurchaseInvoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:SET NULL" json:"invoice,omitempty"`
	InvoiceLineItemID  *uint            `json:"invoice_line_item_id,omitempty"`
	InvoiceLineItem    *InvoiceLineItem `gorm:"foreignKey:InvoiceLineItemID;constraint:OnDelete:SET NULL" json:"invoice_line_item,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// TableName ensures GORM uses the "assets" table
func (Asset) TableName() string {
	return "assets"
}

// Validate checks the assignment invariant
func (a *Asset) Validate() error {
	if a.AssignedToID != nil && a.LocationID != nil {
		return fmt.Errorf("asset can only be assigned to either an employee or a location, not both")
	}
	return nil
}

func (a *Asset) String() string {
	if a.AssetModel != nil {
		return fmt.Sprintf("%s - %s", a.AssetTag, a.AssetModel.String())
	}
	return a.AssetTag
}

// StatusDisplay returns the human-readable status label
func (a *Asset) StatusDisplay() string {
	return assetStatusLabels[a.Status]
}

var assetStatusLabels = map[AssetStatus]string{
	AssetStatusPending:  "Pending",
	AssetStatusActive:   "Active",
	AssetStatusInRepair: "In Repair",
	AssetStatusRetired:  "Retired",
	AssetStatusDisposed: "Disposed",
	AssetStatusInactive: "Inactive",
}

// ValidAssetStatus reports whether s is a known asset status
func ValidAssetStatus(s AssetStatus) bool {
	_, ok := assetStatusLabels[s]
	return ok
}
