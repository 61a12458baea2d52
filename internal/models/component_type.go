package models

import (
	"time"
)

// ComponentType represents a kind of component (CPU, RAM, SSD, ...)
type ComponentType struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TypeName   string         `gorm:"uniqueIndex;not null" json:"type_name"`
	Attributes map[string]any `gorm:"serializer:json" json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName ensures GORM uses the "component_types" table
func (ComponentType) TableName() string {
	return "component_types"
}

func (t *ComponentType) String() string {
	return t.TypeName
}
