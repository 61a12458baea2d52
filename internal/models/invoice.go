package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PaymentStatus represents how much of an invoice has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
)

// PurchaseInvoice represents a vendor invoice for purchased items
type PurchaseInvoice struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	InvoiceNumber    string            `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CompanyID        uint              `gorm:"not null;index" json:"company_id"`
	Company          *Company          `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	VendorID         uint              `gorm:"not null;index" json:"vendor_id"`
	Vendor           *Vendor           `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	InvoiceDate      time.Time         `gorm:"not null" json:"invoice_date"`
	TotalAmount      float64           `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentStatus    PaymentStatus     `gorm:"not null;default:'unpaid'" json:"payment_status"`
	PaymentDate      *time.Time        `json:"payment_date,omitempty"`
	PaymentMethod    string            `json:"payment_method,omitempty"`    // e.g. Cash, Card, Bank
	PaymentReference string            `json:"payment_reference,omitempty"` // transaction / receipt id
	ReceivedByID     *uint             `json:"received_by_id,omitempty"`
	ReceivedBy       *Employee         `gorm:"foreignKey:ReceivedByID;constraint:OnDelete:SET NULL" json:"received_by,omitempty"`
	ReceivedDate     *time.Time        `json:"received_date,omitempty"`
	Notes            string            `gorm:"type:text" json:"notes,omitempty"`
	LineItems        []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TableName ensures GORM uses the "purchase_invoices" table
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

func (p *PurchaseInvoice) String() string {
	if p.Vendor != nil {
		return fmt.Sprintf("%s - %s", p.InvoiceNumber, p.Vendor.VendorName)
	}
	return p.InvoiceNumber
}

// PaymentStatusDisplay returns the human-readable payment status label
func (p *PurchaseInvoice) PaymentStatusDisplay() string {
	switch p.PaymentStatus {
	case PaymentStatusUnpaid:
		return "Unpaid"
	case PaymentStatusPartiallyPaid:
		return "Partially Paid"
	case PaymentStatusPaid:
		return "Paid"
	}
	return string(p.PaymentStatus)
}

// LineItemsTotal computes the invoice total from its line items
func LineItemsTotal(db *gorm.DB, invoiceID uint) (float64, error) {
	var total float64
	err := db.Model(&InvoiceLineItem{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(quantity * item_cost), 0)").
		Scan(&total).Error
	return total, err
}

// RefreshInvoiceTotal re-computes total_amount from line items and saves it
func RefreshInvoiceTotal(db *gorm.DB, invoiceID uint) error {
	total, err := LineItemsTotal(db, invoiceID)
	if err != nil {
		return err
	}
	if total <= 0 {
		return nil
	}
	return db.Model(&PurchaseInvoice{}).Where("id = ?", invoiceID).
		Update("total_amount", total).Error
}

// LineItemType distinguishes what kind of thing a line item purchases
type LineItemType string

const (
	LineItemAsset     LineItemType = "asset"
	LineItemComponent LineItemType = "component"
	LineItemService   LineItemType = "service"
	LineItemOther     LineItemType = "other"
)

// InvoiceLineItem represents one line on a purchase invoice
type InvoiceLineItem struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	InvoiceID       uint             `gorm:"not null;uniqueIndex:idx_line_items_invoice_line" json:"invoice_id"`
	Invoice         *PurchaseInvoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"invoice,omitempty"`
	LineNumber      int              `gorm:"not null;uniqueIndex:idx_line_items_invoice_line" json:"line_number"`
	CompanyID       uint             `gorm:"not null" json:"company_id"`
	Company         *Company         `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	DepartmentID    uint             `gorm:"not null" json:"department_id"`
	Department      *Department      `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"department,omitempty"`
	ItemType        LineItemType     `gorm:"not null" json:"item_type"`
	Description     string           `gorm:"type:text;not null" json:"description"`
	Quantity        int              `gorm:"not null;default:1" json:"quantity"`
	ItemCost        float64          `gorm:"type:decimal(10,2);not null" json:"item_cost"`
	AssetModelID    *uint            `json:"asset_model_id,omitempty"`
	AssetModel      *AssetModel      `gorm:"foreignKey:AssetModelID;constraint:OnDelete:SET NULL" json:"asset_model,omitempty"`
	ComponentTypeID *uint            `json:"component_type_id,omitempty"`
	ComponentType   *ComponentType   `gorm:"foreignKey:ComponentTypeID;constraint:OnDelete:SET NULL" json:"component_type,omitempty"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
}

// TableName ensures GORM uses the "invoice_line_items" table
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

func (li *InvoiceLineItem) String() string {
	return fmt.Sprintf("invoice %d - line %d: %s", li.InvoiceID, li.LineNumber, li.Description)
}

// LineTotal returns quantity * item cost
func (li *InvoiceLineItem) LineTotal() float64 {
	return float64(li.Quantity) * li.ItemCost
}

// ReceivedCount returns how many assets/components were created from this line
func (li *InvoiceLineItem) ReceivedCount(db *gorm.DB) (int64, error) {
	var n int64
	switch li.ItemType {
	case LineItemAsset:
		err := db.Model(&Asset{}).Where("invoice_line_item_id = ?", li.ID).Count(&n).Error
		return n, err
	case LineItemComponent:
		err := db.Model(&Component{}).Where("invoice_line_item_id = ?", li.ID).Count(&n).Error
		return n, err
	}
	return 0, nil
}
