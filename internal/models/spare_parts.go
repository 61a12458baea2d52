package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SparePartsInventory tracks the available quantity of spare components per
// component type. QuantityAvailable is derived from the real count of
// components with status "spare" and re-aggregated on every component change.
type SparePartsInventory struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	ComponentTypeID   uint           `gorm:"not null;index" json:"component_type_id"`
	ComponentType     *ComponentType `gorm:"foreignKey:ComponentTypeID;constraint:OnDelete:CASCADE" json:"component_type,omitempty"`
	Manufacturer      string         `json:"manufacturer,omitempty"`
	Model             string         `json:"model,omitempty"`
	Specifications    string         `gorm:"type:text" json:"specifications,omitempty"`
	QuantityAvailable int            `gorm:"not null;default:0" json:"quantity_available"`
	QuantityMinimum   int            `gorm:"not null;default:0" json:"quantity_minimum"` // reorder threshold
	LocationID        *uint          `json:"location_id,omitempty"`
	Location          *Location      `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	LastRestocked     *time.Time     `json:"last_restocked,omitempty"`
	Notes             string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName ensures GORM uses the "spare_parts_inventory" table
func (SparePartsInventory) TableName() string {
	return "spare_parts_inventory"
}

func (s *SparePartsInventory) String() string {
	mfr := s.Manufacturer
	if mfr == "" {
		mfr = "Generic"
	}
	if s.ComponentType != nil {
		return fmt.Sprintf("%s - %s (%d available)", s.ComponentType.TypeName, mfr, s.QuantityAvailable)
	}
	return fmt.Sprintf("%s (%d available)", mfr, s.QuantityAvailable)
}

// NeedsRestock reports whether the quantity has fallen to the reorder threshold
func (s *SparePartsInventory) NeedsRestock() bool {
	return s.QuantityAvailable <= s.QuantityMinimum
}

// SyncSparePartsForType re-aggregates the inventory row for one component type
// so QuantityAvailable equals the real count of spare components.
//
// A row is created when spare components exist without one; an existing row
// only has its quantity touched so threshold and notes survive; when zero
// spares remain the quantity is set to 0 but the row is kept.
func SyncSparePartsForType(db *gorm.DB, componentTypeID uint) error {
	var spareCount int64
	if err := db.Model(&Component{}).
		Where("component_type_id = ? AND status = ?", componentTypeID, ComponentStatusSpare).
		Count(&spareCount).Error; err != nil {
		return err
	}

	var entry SparePartsInventory
	err := db.Where("component_type_id = ?", componentTypeID).First(&entry).Error
	switch {
	case err == nil:
		if entry.QuantityAvailable != int(spareCount) {
			return db.Model(&entry).Update("quantity_available", int(spareCount)).Error
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		if spareCount == 0 {
			return nil
		}
		return db.Create(&SparePartsInventory{
			ComponentTypeID:   componentTypeID,
			QuantityAvailable: int(spareCount),
		}).Error
	default:
		return err
	}
}

// SyncAllSpareParts bulk-syncs every inventory row against real component
// counts. Called when the spare-parts listing loads to guarantee consistency
// after imports or bypassed hooks.
func SyncAllSpareParts(db *gorm.DB) error {
	type typeCount struct {
		ComponentTypeID uint
		Cnt             int
	}
	var counts []typeCount
	if err := db.Model(&Component{}).
		Select("component_type_id, count(id) as cnt").
		Where("status = ?", ComponentStatusSpare).
		Group("component_type_id").
		Scan(&counts).Error; err != nil {
		return err
	}

	seen := make([]uint, 0, len(counts))
	for _, tc := range counts {
		seen = append(seen, tc.ComponentTypeID)
		var entry SparePartsInventory
		err := db.Where("component_type_id = ?", tc.ComponentTypeID).First(&entry).Error
		switch {
		case err == nil:
			if entry.QuantityAvailable != tc.Cnt {
				if err := db.Model(&entry).Update("quantity_available", tc.Cnt).Error; err != nil {
					return err
				}
			}
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&SparePartsInventory{
				ComponentTypeID:   tc.ComponentTypeID,
				QuantityAvailable: tc.Cnt,
			}).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}

	// Zero out rows whose types no longer have spare components
	q := db.Model(&SparePartsInventory{}).Where("quantity_available > 0")
	if len(seen) > 0 {
		q = q.Where("component_type_id NOT IN ?", seen)
	}
	return q.Update("quantity_available", 0).Error
}
