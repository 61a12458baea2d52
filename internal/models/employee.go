package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeStatus represents the employment state of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// Employee represents a person assets can be assigned to.
// Optionally linked to a User account for authentication.
type Employee struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	EmployeeID   *string        `gorm:"uniqueIndex" json:"employee_id,omitempty"` // badge / HR number
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Extension    string         `json:"extension,omitempty"`
	CompanyID    *uint          `gorm:"index" json:"company_id,omitempty"`
	Company      *Company       `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	DepartmentID *uint          `gorm:"index" json:"department_id,omitempty"`
	Department   *Department    `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	LocationID   *uint          `json:"location_id,omitempty"`
	Location     *Location      `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Position     string         `json:"position,omitempty"`
	Status       EmployeeStatus `gorm:"not null;default:'active'" json:"status"`
	UserID       *uuid.UUID     `gorm:"type:text" json:"user_id,omitempty"` // linked auth account
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName ensures GORM uses the "employees" table
func (Employee) TableName() string {
	return "employees"
}

// BeforeSave fills company and location from the department when not set
func (e *Employee) BeforeSave(tx *gorm.DB) error {
	if e.DepartmentID == nil {
		return nil
	}
	if e.CompanyID != nil && e.LocationID != nil {
		return nil
	}
	var dept Department
	if err := tx.Session(&gorm.Session{NewDB: true, Initialized: true}).First(&dept, *e.DepartmentID).Error; err != nil {
		return nil // department lookup is best-effort
	}
	if e.CompanyID == nil {
		e.CompanyID = &dept.CompanyID
	}
	if e.LocationID == nil && dept.DefaultLocationID != nil {
		e.LocationID = dept.DefaultLocationID
	}
	return nil
}

func (e *Employee) String() string {
	if e.EmployeeID != nil && *e.EmployeeID != "" {
		return fmt.Sprintf("%s (%s)", e.Name, *e.EmployeeID)
	}
	return e.Name
}

// StatusDisplay returns the human-readable status label
func (e *Employee) StatusDisplay() string {
	switch e.Status {
	case EmployeeStatusActive:
		return "Active"
	case EmployeeStatusInactive:
		return "Inactive"
	}
	return string(e.Status)
}
