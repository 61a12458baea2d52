package service

import (
	"time"

	"github.com/castellan-dev/castellan/internal/models"
)

// CreateAssetRequest holds parameters for creating an asset.
type CreateAssetRequest struct {
	AssetTag           string
	AssetModelID       uint
	CompanyID          *uint
	SerialNumber       string
	Status             models.AssetStatus
	Attributes         map[string]any
	Notes              string
	PurchaseDate       *time.Time
	PurchaseCost       *float64
	WarrantyExpiryDate *time.Time
	LocationID         *uint
	AssignedToID       *uint
	RequisitionID      *uint
	InvoiceID          *uint
}

// UpdateAssetRequest holds the updatable asset fields. Nil pointers leave
// the current value untouched; status changes are logged separately.
type UpdateAssetRequest struct {
	AssetModelID       *uint
	CompanyID          *uint
	SerialNumber       *string
	Status             *models.AssetStatus
	Attributes         map[string]any
	Notes              *string
	PurchaseDate       *time.Time
	PurchaseCost       *float64
	WarrantyExpiryDate *time.Time
}

// AssignAssetRequest assigns an asset to an employee or a location.
type AssignAssetRequest struct {
	EmployeeID            *uint
	LocationID            *uint
	ConditionOnAssignment string
	Notes                 string
}

// UnassignAssetRequest closes the open assignment.
type UnassignAssetRequest struct {
	ConditionOnReturn string
	Notes             string
}

// CreateComponentRequest holds parameters for creating a component.
type CreateComponentRequest struct {
	ComponentTag       string
	ComponentTypeID    uint
	ParentAssetID      *uint
	Manufacturer       string
	Model              string
	SerialNumber       string
	Specifications     string
	Status             models.ComponentStatus
	PurchaseDate       *time.Time
	WarrantyExpiryDate *time.Time
	Notes              string
}

// InstallComponentRequest installs a component into a parent asset.
type InstallComponentRequest struct {
	ParentAssetID uint
	PerformedByID *uint
	Reason        string
	// Component being replaced by this install, if any
	PreviousComponentID *uint
}

// RemoveComponentRequest removes a component from its parent asset.
type RemoveComponentRequest struct {
	PerformedByID *uint
	Reason        string
	// Status the component takes after removal: spare, failed or removed
	NewStatus models.ComponentStatus
}

// CreateRequisitionRequest holds parameters for creating a requisition.
type CreateRequisitionRequest struct {
	RequisitionNumber string
	CompanyID         uint
	DepartmentID      uint
	RequestedByID     uint
	ApprovedByID      *uint
	RequisitionDate   time.Time
	Specifications    map[string]any
	Priority          models.RequisitionPriority
	Notes             string
}

// AddRequisitionItemRequest attaches an asset or component to a requisition.
type AddRequisitionItemRequest struct {
	AssetID     *uint
	ComponentID *uint
	Notes       string
}

// CreateInvoiceRequest holds parameters for creating a purchase invoice
// together with its line items.
type CreateInvoiceRequest struct {
	InvoiceNumber string
	CompanyID     uint
	VendorID      uint
	InvoiceDate   time.Time
	TotalAmount   float64
	Notes         string
	LineItems     []CreateLineItemRequest
}

// CreateLineItemRequest is one line on a new invoice.
type CreateLineItemRequest struct {
	CompanyID       uint
	DepartmentID    uint
	ItemType        models.LineItemType
	Description     string
	Quantity        int
	ItemCost        float64
	AssetModelID    *uint
	ComponentTypeID *uint
	Notes           string
}

// ReceiveLineItemRequest materializes purchased items from an invoice line:
// assets for asset lines, components for component lines.
type ReceiveLineItemRequest struct {
	Quantity      int
	ReceivedByID  *uint
	SerialNumbers []string // optional, applied in order
}

// MarkInvoicePaidRequest records a payment against an invoice.
type MarkInvoicePaidRequest struct {
	PaymentStatus    models.PaymentStatus
	PaymentDate      *time.Time
	PaymentMethod    string
	PaymentReference string
}
