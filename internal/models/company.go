package models

import (
	"time"
)

// Company represents a legal entity that owns assets and employs people
type Company struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"` // short code used in tag prefixes, e.g. "AC"
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Zip       string    `json:"zip,omitempty"`
	Country   string    `json:"country,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "companies" table
func (Company) TableName() string {
	return "companies"
}

func (c *Company) String() string {
	return c.Name
}
