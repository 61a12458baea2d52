package models

import (
	"time"
)

// Vendor represents a supplier of assets and components
type Vendor struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	VendorName    string    `gorm:"not null" json:"vendor_name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	Website       string    `json:"website,omitempty"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "vendors" table
func (Vendor) TableName() string {
	return "vendors"
}

func (v *Vendor) String() string {
	return v.VendorName
}
