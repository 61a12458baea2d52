package models

import (
	"fmt"
	"time"
)

// AssetAssignment records the history of an asset being handed to an
// employee or placed at a location. Exactly one of the two must be set.
type AssetAssignment struct {
	ID                    uint       `gorm:"primarykey" json:"id"`
	AssetID               uint       `gorm:"not null;index" json:"asset_id"`
	Asset                 *Asset     `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
	EmployeeID            *uint      `json:"employee_id,omitempty"`
	Employee              *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
	LocationID            *uint      `json:"location_id,omitempty"`
	Location              *Location  `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	AssignedDate          time.Time  `gorm:"not null" json:"assigned_date"`
	ReturnedDate          *time.Time `json:"returned_date,omitempty"`
	ConditionOnAssignment string     `gorm:"type:text" json:"condition_on_assignment,omitempty"`
	ConditionOnReturn     string     `gorm:"type:text" json:"condition_on_return,omitempty"`
	Notes                 string     `gorm:"type:text" json:"notes,omitempty"`
}

// TableName ensures GORM uses the "asset_assignments" table
func (AssetAssignment) TableName() string {
	return "asset_assignments"
}

// Validate checks that an assignee is present
func (a *AssetAssignment) Validate() error {
	if a.EmployeeID == nil && a.LocationID == nil {
		return fmt.Errorf("either employee or location must be specified")
	}
	return nil
}

func (a *AssetAssignment) String() string {
	switch {
	case a.Employee != nil:
		return fmt.Sprintf("asset %d -> %s", a.AssetID, a.Employee.Name)
	case a.Location != nil:
		return fmt.Sprintf("asset %d -> %s", a.AssetID, a.Location.Name)
	}
	return fmt.Sprintf("asset %d - assignment %d", a.AssetID, a.ID)
}
