package models

import (
	"fmt"
	"time"
)

// Location represents a physical site where assets or people reside
type Location struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Zipcode   string    `json:"zipcode,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "locations" table
func (Location) TableName() string {
	return "locations"
}

func (l *Location) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("Location %d", l.ID)
}
