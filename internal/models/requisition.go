package models

import (
	"fmt"
	"time"
)

// RequisitionPriority represents how urgent a requisition is
type RequisitionPriority string

const (
	PriorityLow    RequisitionPriority = "low"
	PriorityNormal RequisitionPriority = "normal"
	PriorityHigh   RequisitionPriority = "high"
	PriorityUrgent RequisitionPriority = "urgent"
)

// RequisitionStatus represents the state of a requisition
type RequisitionStatus string

const (
	RequisitionStatusPending   RequisitionStatus = "pending"
	RequisitionStatusFulfilled RequisitionStatus = "fulfilled"
	RequisitionStatusCancelled RequisitionStatus = "cancelled"
)

// Requisition is a request header fulfilled by any mix of assets and
// components via RequisitionItem rows. Only approved requisitions are
// entered into the system, so ApprovedBy is a plain optional reference.
type Requisition struct {
	ID                 uint                `gorm:"primarykey" json:"id"`
	RequisitionNumber  string              `gorm:"uniqueIndex;not null" json:"requisition_number"`
	CompanyID          uint                `gorm:"not null;index" json:"company_id"`
	Company            *Company            `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	DepartmentID       uint                `gorm:"not null;index" json:"department_id"`
	Department         *Department         `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"department,omitempty"`
	RequestedByID      uint                `gorm:"not null" json:"requested_by_id"`
	RequestedBy        *Employee           `gorm:"foreignKey:RequestedByID;constraint:OnDelete:CASCADE" json:"requested_by,omitempty"`
	ApprovedByID       *uint               `json:"approved_by_id,omitempty"`
	ApprovedBy         *Employee           `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"approved_by,omitempty"`
	RequisitionDate    time.Time           `gorm:"not null" json:"requisition_date"`
	Specifications     map[string]any      `gorm:"serializer:json" json:"specifications,omitempty"`
	Priority           RequisitionPriority `gorm:"not null;default:'normal';index" json:"priority"`
	Status             RequisitionStatus   `gorm:"not null;default:'pending';index" json:"status"`
	Notes              string              `gorm:"type:text" json:"notes,omitempty"`
	FulfilledDate      *time.Time          `json:"fulfilled_date,omitempty"`
	CancellationReason string              `gorm:"type:text" json:"cancellation_reason,omitempty"`
	Items              []RequisitionItem   `gorm:"foreignKey:RequisitionID" json:"items,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TableName ensures GORM uses the "requisitions" table
func (Requisition) TableName() string {
	return "requisitions"
}

func (r *Requisition) String() string {
	return r.RequisitionNumber
}

// StatusDisplay returns the human-readable status label
func (r *Requisition) StatusDisplay() string {
	switch r.Status {
	case RequisitionStatusPending:
		return "Pending"
	case RequisitionStatusFulfilled:
		return "Fulfilled"
	case RequisitionStatusCancelled:
		return "Cancelled"
	}
	return string(r.Status)
}

// RequisitionItemType distinguishes asset items from component items
type RequisitionItemType string

const (
	RequisitionItemAsset     RequisitionItemType = "asset"
	RequisitionItemComponent RequisitionItemType = "component"
)

// RequisitionItem fulfills part of a requisition with exactly one of an
// asset or a component.
type RequisitionItem struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	RequisitionID uint                `gorm:"not null;index" json:"requisition_id"`
	Requisition   *Requisition        `gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE" json:"requisition,omitempty"`
	ItemType      RequisitionItemType `gorm:"not null" json:"item_type"`
	AssetID       *uint               `json:"asset_id,omitempty"`
	Asset         *Asset              `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
	ComponentID   *uint               `json:"component_id,omitempty"`
	Component     *Component          `gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE" json:"component,omitempty"`
	Notes         string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// TableName ensures GORM uses the "requisition_items" table
func (RequisitionItem) TableName() string {
	return "requisition_items"
}

// Validate enforces the exactly-one-of invariant and normalizes ItemType
func (i *RequisitionItem) Validate() error {
	hasAsset := i.AssetID != nil
	hasComponent := i.ComponentID != nil

	if hasAsset && hasComponent {
		return fmt.Errorf("an item cannot reference both an asset and a component")
	}
	if !hasAsset && !hasComponent {
		return fmt.Errorf("an item must reference either an asset or a component")
	}

	if hasAsset {
		i.ItemType = RequisitionItemAsset
	} else {
		i.ItemType = RequisitionItemComponent
	}
	return nil
}

func (i *RequisitionItem) String() string {
	return fmt.Sprintf("requisition %d item %d", i.RequisitionID, i.ID)
}
