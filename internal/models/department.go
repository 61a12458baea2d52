package models

import (
	"fmt"
	"time"
)

// Department represents an organizational unit within a company
type Department struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	CompanyID         uint      `gorm:"not null;uniqueIndex:idx_departments_company_name" json:"company_id"`
	Company           *Company  `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	Name              string    `gorm:"not null;uniqueIndex:idx_departments_company_name" json:"name"`
	DefaultLocationID *uint     `json:"default_location_id,omitempty"`
	DefaultLocation   *Location `gorm:"foreignKey:DefaultLocationID;constraint:OnDelete:SET NULL" json:"default_location,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "departments" table
func (Department) TableName() string {
	return "departments"
}

func (d *Department) String() string {
	if d.Company != nil {
		return fmt.Sprintf("%s - %s", d.Company.Code, d.Name)
	}
	return d.Name
}
