package models

import (
	"time"
)

// Category represents an asset category (Desktop, Laptop, Printer, ...)
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName ensures GORM uses the "categories" table
func (Category) TableName() string {
	return "categories"
}

func (c *Category) String() string {
	return c.Name
}
