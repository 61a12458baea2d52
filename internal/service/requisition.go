package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/models"
)

// RequisitionService contains the business logic for requisitions and the
// items fulfilling them.
type RequisitionService struct {
	db *gorm.DB
}

// NewRequisitionService creates a new RequisitionService.
func NewRequisitionService(db *gorm.DB) *RequisitionService {
	return &RequisitionService{db: db}
}

// Get returns a requisition with its items and relations.
func (s *RequisitionService) Get(id uint) (*models.Requisition, error) {
	var req models.Requisition
	err := s.db.
		Preload("Company").
		Preload("Department").
		Preload("RequestedBy").
		Preload("ApprovedBy").
		Preload("Items").
		Preload("Items.Asset").
		Preload("Items.Component").
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create validates and creates a new requisition.
func (s *RequisitionService) Create(ctx context.Context, req CreateRequisitionRequest) (*models.Requisition, error) {
	if req.RequisitionNumber == "" {
		return nil, &ValidationError{Message: "requisition number is required"}
	}

	var count int64
	if err := s.db.Model(&models.Requisition{}).
		Where("requisition_number = ?", req.RequisitionNumber).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: fmt.Sprintf("requisition %q already exists", req.RequisitionNumber)}
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	date := req.RequisitionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	r := models.Requisition{
		RequisitionNumber: req.RequisitionNumber,
		CompanyID:         req.CompanyID,
		DepartmentID:      req.DepartmentID,
		RequestedByID:     req.RequestedByID,
		ApprovedByID:      req.ApprovedByID,
		RequisitionDate:   date,
		Specifications:    req.Specifications,
		Priority:          priority,
		Status:            models.RequisitionStatusPending,
		Notes:             req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create requisition: %w", err)
	}
	return &r, nil
}

// AddItem attaches an asset or component to a pending requisition.
// Cancelled and fulfilled requisitions reject new items, and an asset or
// component already attached to another requisition cannot be reassigned.
func (s *RequisitionService) AddItem(ctx context.Context, reqID uint, item AddRequisitionItemRequest) (*models.RequisitionItem, error) {
	var r models.Requisition
	if err := s.db.First(&r, reqID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.Status != models.RequisitionStatusPending {
		return nil, &ValidationError{Message: fmt.Sprintf("cannot add items to a %s requisition", r.Status)}
	}

	row := models.RequisitionItem{
		RequisitionID: r.ID,
		AssetID:       item.AssetID,
		ComponentID:   item.ComponentID,
		Notes:         item.Notes,
	}
	if err := row.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	// One requisition per item: reject double-attachment
	var existing int64
	if row.AssetID != nil {
		s.db.Model(&models.RequisitionItem{}).Where("asset_id = ?", *row.AssetID).Count(&existing)
	} else {
		s.db.Model(&models.RequisitionItem{}).Where("component_id = ?", *row.ComponentID).Count(&existing)
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "item is already attached to a requisition"}
	}

	err := s.db.WithContext(activity.Suppress(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		// Stamp the back reference on the fulfilled thing
		if row.AssetID != nil {
			return tx.Model(&models.Asset{}).Where("id = ?", *row.AssetID).
				Update("requisition_id", r.ID).Error
		}
		return tx.Model(&models.Component{}).Where("id = ?", *row.ComponentID).
			Update("requisition_id", r.ID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add requisition item: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventFulfillment,
		Action:    models.ActionCreated,
		Message:   fmt.Sprintf("Item added to requisition %s", r.RequisitionNumber),
		Entity:    &row,
	})
	return &row, nil
}

// RemoveItem detaches an item from a pending requisition.
func (s *RequisitionService) RemoveItem(ctx context.Context, reqID, itemID uint) error {
	var row models.RequisitionItem
	if err := s.db.Where("id = ? AND requisition_id = ?", itemID, reqID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var r models.Requisition
	if err := s.db.First(&r, reqID).Error; err == nil && r.Status != models.RequisitionStatusPending {
		return &ValidationError{Message: fmt.Sprintf("cannot remove items from a %s requisition", r.Status)}
	}

	return s.db.WithContext(activity.Suppress(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		if row.AssetID != nil {
			return tx.Model(&models.Asset{}).Where("id = ?", *row.AssetID).
				Update("requisition_id", nil).Error
		}
		return tx.Model(&models.Component{}).Where("id = ?", *row.ComponentID).
			Update("requisition_id", nil).Error
	})
}

// Fulfill marks a requisition fulfilled. At least one item must be attached.
func (s *RequisitionService) Fulfill(ctx context.Context, id uint) (*models.Requisition, error) {
	var r models.Requisition
	if err := s.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.Status == models.RequisitionStatusFulfilled {
		return nil, &ConflictError{Message: fmt.Sprintf("requisition %s is already fulfilled", r.RequisitionNumber)}
	}
	if r.Status == models.RequisitionStatusCancelled {
		return nil, &ValidationError{Message: fmt.Sprintf("requisition %s is cancelled", r.RequisitionNumber)}
	}

	var items int64
	if err := s.db.Model(&models.RequisitionItem{}).Where("requisition_id = ?", r.ID).Count(&items).Error; err != nil {
		return nil, err
	}
	if items == 0 {
		return nil, &ValidationError{Message: "a requisition needs at least one item before it can be fulfilled"}
	}

	now := time.Now().UTC()
	r.Status = models.RequisitionStatusFulfilled
	r.FulfilledDate = &now
	if err := s.db.WithContext(activity.Suppress(ctx)).Save(&r).Error; err != nil {
		return nil, fmt.Errorf("fulfill requisition: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventRequisition,
		Action:    models.ActionFulfilled,
		Message:   fmt.Sprintf("Requisition %s fulfilled with %d items", r.RequisitionNumber, items),
		Entity:    &r,
	})
	return &r, nil
}

// Cancel marks a requisition cancelled with a reason.
func (s *RequisitionService) Cancel(ctx context.Context, id uint, reason string) (*models.Requisition, error) {
	var r models.Requisition
	if err := s.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.Status != models.RequisitionStatusPending {
		return nil, &ValidationError{Message: fmt.Sprintf("only pending requisitions can be cancelled, this one is %s", r.Status)}
	}

	r.Status = models.RequisitionStatusCancelled
	r.CancellationReason = reason
	if err := s.db.WithContext(activity.Suppress(ctx)).Save(&r).Error; err != nil {
		return nil, fmt.Errorf("cancel requisition: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventRequisition,
		Action:    models.ActionCancelled,
		Message:   fmt.Sprintf("Requisition %s cancelled", r.RequisitionNumber),
		Detail:    reason,
		Entity:    &r,
	})
	return &r, nil
}
