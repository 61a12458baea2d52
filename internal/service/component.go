package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/tagging"
)

// ComponentService contains the business logic for component operations:
// creation, install/remove lifecycle and the history trail behind it.
type ComponentService struct {
	db *gorm.DB
}

// NewComponentService creates a new ComponentService.
func NewComponentService(db *gorm.DB) *ComponentService {
	return &ComponentService{db: db}
}

// Get returns a single component by ID with its relations loaded.
func (s *ComponentService) Get(id uint) (*models.Component, error) {
	var comp models.Component
	err := s.db.
		Preload("ComponentType").
		Preload("ParentAsset").
		Preload("Requisition").
		Preload("Invoice").
		First(&comp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comp, nil
}

// History returns the install/remove trail for a component, newest first.
func (s *ComponentService) History(id uint) ([]models.ComponentHistory, error) {
	var history []models.ComponentHistory
	err := s.db.Where("component_id = ?", id).
		Preload("ParentAsset").
		Preload("PerformedBy").
		Order("action_date DESC").
		Find(&history).Error
	return history, err
}

// Create validates and creates a new component. A blank tag is generated
// from the prefix configuration via the parent asset's context.
func (s *ComponentService) Create(ctx context.Context, req CreateComponentRequest) (*models.Component, error) {
	status := req.Status
	if status == "" {
		if req.ParentAssetID != nil {
			status = models.ComponentStatusInstalled
		} else {
			status = models.ComponentStatusSpare
		}
	}
	if !models.ValidComponentStatus(status) {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid component status %q", status)}
	}

	comp := models.Component{
		ComponentTag:       req.ComponentTag,
		ComponentTypeID:    req.ComponentTypeID,
		ParentAssetID:      req.ParentAssetID,
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		SerialNumber:       req.SerialNumber,
		Specifications:     req.Specifications,
		Status:             status,
		PurchaseDate:       req.PurchaseDate,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
		Notes:              req.Notes,
	}
	if err := comp.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if comp.Status == models.ComponentStatusInstalled {
		now := time.Now().UTC()
		comp.InstallationDate = &now
	}

	if comp.ComponentTag == "" {
		comp.ComponentTag = tagging.GenerateComponentTagFor(s.db, &comp)
	} else {
		var count int64
		if err := s.db.Model(&models.Component{}).Where("component_tag = ?", comp.ComponentTag).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf("component tag %q already exists", comp.ComponentTag)}
		}
	}

	if err := s.db.WithContext(ctx).Create(&comp).Error; err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}

	if comp.ParentAssetID != nil {
		s.appendHistory(ctx, &comp, *comp.ParentAssetID, models.ComponentActionInstalled, nil, "", nil)
	}
	return &comp, nil
}

// Install mounts a spare (or removed) component into a parent asset,
// appending a history row and an activity entry.
func (s *ComponentService) Install(ctx context.Context, id uint, req InstallComponentRequest) (*models.Component, error) {
	var comp models.Component
	if err := s.db.First(&comp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comp.Status == models.ComponentStatusInstalled {
		return nil, &ConflictError{Message: fmt.Sprintf("component %s is already installed", comp.ComponentTag)}
	}
	if comp.Status == models.ComponentStatusDisposed {
		return nil, &ValidationError{Message: fmt.Sprintf("component %s is disposed and cannot be installed", comp.ComponentTag)}
	}

	var parent models.Asset
	if err := s.db.First(&parent, req.ParentAssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Message: fmt.Sprintf("parent asset %d does not exist", req.ParentAssetID)}
		}
		return nil, err
	}

	now := time.Now().UTC()
	comp.ParentAssetID = &req.ParentAssetID
	comp.Status = models.ComponentStatusInstalled
	comp.InstallationDate = &now
	comp.RemovalDate = nil

	// Suppressed save: the inventory re-sync runs regardless, and the
	// richer install entry below replaces the generic updated row.
	if err := s.db.WithContext(activity.Suppress(ctx)).Save(&comp).Error; err != nil {
		return nil, fmt.Errorf("install component: %w", err)
	}

	action := models.ComponentActionInstalled
	if req.PreviousComponentID != nil {
		action = models.ComponentActionReplaced
	}
	s.appendHistory(ctx, &comp, req.ParentAssetID, action, req.PerformedByID, req.Reason, req.PreviousComponentID)

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventComponent,
		Action:    models.ActionStatusChanged,
		Message:   fmt.Sprintf("Component %s installed in %s", comp.ComponentTag, parent.AssetTag),
		Entity:    &comp,
	})

	s.syncSpares(ctx, comp.ComponentTypeID)
	return &comp, nil
}

// Remove takes a component out of its parent asset. NewStatus defaults to
// spare; failed and removed are also accepted.
func (s *ComponentService) Remove(ctx context.Context, id uint, req RemoveComponentRequest) (*models.Component, error) {
	var comp models.Component
	if err := s.db.First(&comp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comp.ParentAssetID == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("component %s is not installed", comp.ComponentTag)}
	}

	newStatus := req.NewStatus
	if newStatus == "" {
		newStatus = models.ComponentStatusSpare
	}
	switch newStatus {
	case models.ComponentStatusSpare, models.ComponentStatusFailed, models.ComponentStatusRemoved, models.ComponentStatusDisposed:
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("invalid post-removal status %q", newStatus)}
	}

	parentID := *comp.ParentAssetID
	var parent models.Asset
	parentTag := fmt.Sprintf("asset %d", parentID)
	if err := s.db.First(&parent, parentID).Error; err == nil {
		parentTag = parent.AssetTag
	}

	now := time.Now().UTC()
	comp.ParentAssetID = nil
	comp.Status = newStatus
	comp.RemovalDate = &now

	if err := s.db.WithContext(activity.Suppress(ctx)).Save(&comp).Error; err != nil {
		return nil, fmt.Errorf("remove component: %w", err)
	}

	histAction := models.ComponentActionRemoved
	if newStatus == models.ComponentStatusFailed {
		histAction = models.ComponentActionFailed
	}
	s.appendHistory(ctx, &comp, parentID, histAction, req.PerformedByID, req.Reason, nil)

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventComponent,
		Action:    models.ActionStatusChanged,
		Message:   fmt.Sprintf("Component %s removed from %s (%s)", comp.ComponentTag, parentTag, newStatus),
		Entity:    &comp,
	})

	s.syncSpares(ctx, comp.ComponentTypeID)
	return &comp, nil
}

// Delete removes a component and re-syncs the spare inventory for its type.
func (s *ComponentService) Delete(ctx context.Context, id uint) error {
	var comp models.Component
	if err := s.db.First(&comp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&comp).Error; err != nil {
		return fmt.Errorf("delete component: %w", err)
	}
	return nil
}

// appendHistory writes a component history row. History is bookkeeping for
// the component screen, so failures are logged by the caller's interception
// path but never block the main operation.
func (s *ComponentService) appendHistory(ctx context.Context, comp *models.Component, parentAssetID uint,
	action models.ComponentAction, performedByID *uint, reason string, previousID *uint) {
	row := models.ComponentHistory{
		ComponentID:         comp.ID,
		ParentAssetID:       parentAssetID,
		Action:              action,
		ActionDate:          time.Now().UTC(),
		PerformedByID:       performedByID,
		Reason:              reason,
		PreviousComponentID: previousID,
	}
	s.db.WithContext(activity.Suppress(ctx)).Create(&row)
}

// syncSpares re-aggregates the spare inventory row for a component type.
// Best effort: the interception callbacks also sync on every component
// write, this call just covers status flips done via Update.
func (s *ComponentService) syncSpares(ctx context.Context, componentTypeID uint) {
	_ = models.SyncSparePartsForType(s.db.WithContext(activity.Suppress(ctx)), componentTypeID)
}
