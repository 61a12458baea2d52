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

// AssetService contains the business logic for asset operations.
type AssetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetService.
func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

// Get returns a single asset by ID with its relations loaded.
func (s *AssetService) Get(id uint) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.
		Preload("Company").
		Preload("AssetModel").
		Preload("AssetModel.Category").
		Preload("Location").
		Preload("AssignedTo").
		Preload("Requisition").
		Preload("Invoice").
		First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Create validates and creates a new asset. A blank tag is generated from
// the prefix configuration; creation is logged automatically.
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest) (*models.Asset, error) {
	status := req.Status
	if status == "" {
		status = models.AssetStatusPending
	}
	if !models.ValidAssetStatus(status) {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid asset status %q", status)}
	}

	asset := models.Asset{
		AssetTag:           req.AssetTag,
		AssetModelID:       req.AssetModelID,
		CompanyID:          req.CompanyID,
		SerialNumber:       req.SerialNumber,
		Status:             status,
		Attributes:         req.Attributes,
		Notes:              req.Notes,
		PurchaseDate:       req.PurchaseDate,
		PurchaseCost:       req.PurchaseCost,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
		LocationID:         req.LocationID,
		AssignedToID:       req.AssignedToID,
		RequisitionID:      req.RequisitionID,
		InvoiceID:          req.InvoiceID,
	}
	if err := asset.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if asset.AssetTag == "" {
		asset.AssetTag = tagging.GenerateAssetTagFor(s.db, &asset)
	} else {
		var count int64
		if err := s.db.Model(&models.Asset{}).Where("asset_tag = ?", asset.AssetTag).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf("asset tag %q already exists", asset.AssetTag)}
		}
	}

	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return &asset, nil
}

// Update applies the changed fields, collecting a field -> [old, new] map for
// the activity trail. A status change produces its own status_changed entry
// instead of the generic updated row.
func (s *AssetService) Update(ctx context.Context, id uint, req UpdateAssetRequest) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string][]any{}
	oldStatus := asset.Status

	if req.AssetModelID != nil && *req.AssetModelID != asset.AssetModelID {
		changes["asset_model_id"] = []any{asset.AssetModelID, *req.AssetModelID}
		asset.AssetModelID = *req.AssetModelID
	}
	if req.CompanyID != nil {
		changes["company_id"] = []any{asset.CompanyID, *req.CompanyID}
		asset.CompanyID = req.CompanyID
	}
	if req.SerialNumber != nil && *req.SerialNumber != asset.SerialNumber {
		changes["serial_number"] = []any{asset.SerialNumber, *req.SerialNumber}
		asset.SerialNumber = *req.SerialNumber
	}
	if req.Notes != nil && *req.Notes != asset.Notes {
		changes["notes"] = []any{asset.Notes, *req.Notes}
		asset.Notes = *req.Notes
	}
	if req.Attributes != nil {
		changes["attributes"] = []any{asset.Attributes, req.Attributes}
		asset.Attributes = req.Attributes
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}
	if req.PurchaseCost != nil {
		asset.PurchaseCost = req.PurchaseCost
	}
	if req.WarrantyExpiryDate != nil {
		asset.WarrantyExpiryDate = req.WarrantyExpiryDate
	}

	statusChanged := false
	if req.Status != nil && *req.Status != oldStatus {
		if !models.ValidAssetStatus(*req.Status) {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid asset status %q", *req.Status)}
		}
		changes["status"] = []any{oldStatus, *req.Status}
		asset.Status = *req.Status
		statusChanged = true
	}

	if len(changes) == 0 {
		return &asset, nil
	}

	// A status change gets a dedicated entry, so the generic interception is
	// suppressed for this save.
	saveCtx := ctx
	if statusChanged {
		saveCtx = activity.Suppress(ctx)
	}
	if err := s.db.WithContext(saveCtx).Save(&asset).Error; err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}

	if statusChanged {
		activity.Record(ctx, s.db, activity.Entry{
			EventType: models.EventAsset,
			Action:    models.ActionStatusChanged,
			Message:   fmt.Sprintf("Asset %s status changed from %s to %s", asset.AssetTag, oldStatus, asset.Status),
			Entity:    &asset,
			Changes:   changes,
		})
	}

	return &asset, nil
}

// Delete removes an asset. The pre-delete snapshot is captured by the
// interception callbacks.
func (s *AssetService) Delete(ctx context.Context, id uint) error {
	var asset models.Asset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

// Duplicate creates a copy of an asset with a freshly generated tag. The
// copy starts pending and unassigned.
func (s *AssetService) Duplicate(ctx context.Context, id uint) (*models.Asset, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	dup := models.Asset{
		AssetModelID:       src.AssetModelID,
		CompanyID:          src.CompanyID,
		Attributes:         src.Attributes,
		Notes:              src.Notes,
		PurchaseDate:       src.PurchaseDate,
		PurchaseCost:       src.PurchaseCost,
		WarrantyExpiryDate: src.WarrantyExpiryDate,
		Status:             models.AssetStatusPending,
	}
	dup.AssetTag = tagging.GenerateAssetTagFor(s.db, &dup)

	if err := s.db.WithContext(activity.Suppress(ctx)).Create(&dup).Error; err != nil {
		return nil, fmt.Errorf("duplicate asset: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventAsset,
		Action:    models.ActionDuplicated,
		Message:   fmt.Sprintf("Asset %s duplicated from %s", dup.AssetTag, src.AssetTag),
		Entity:    &dup,
	})
	return &dup, nil
}

// Assign hands an asset to an employee or places it at a location, opening
// an assignment history row. Exactly one target must be given.
func (s *AssetService) Assign(ctx context.Context, id uint, req AssignAssetRequest) (*models.Asset, error) {
	if (req.EmployeeID == nil) == (req.LocationID == nil) {
		return nil, &ValidationError{Message: "assignment requires exactly one of employee or location"}
	}

	var asset models.Asset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if asset.AssignedToID != nil || asset.LocationID != nil {
		return nil, &ConflictError{Message: fmt.Sprintf("asset %s is already assigned", asset.AssetTag)}
	}

	assignment := models.AssetAssignment{
		AssetID:               asset.ID,
		EmployeeID:            req.EmployeeID,
		LocationID:            req.LocationID,
		AssignedDate:          time.Now().UTC(),
		ConditionOnAssignment: req.ConditionOnAssignment,
		Notes:                 req.Notes,
	}

	target := s.assignmentTarget(req.EmployeeID, req.LocationID)

	err := s.db.WithContext(activity.Suppress(ctx)).Transaction(func(tx *gorm.DB) error {
		asset.AssignedToID = req.EmployeeID
		asset.LocationID = req.LocationID
		if asset.Status == models.AssetStatusPending {
			asset.Status = models.AssetStatusActive
		}
		if err := tx.Save(&asset).Error; err != nil {
			return err
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("assign asset: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventAssignment,
		Action:    models.ActionAssigned,
		Message:   fmt.Sprintf("Asset %s assigned to %s", asset.AssetTag, target),
		Entity:    &assignment,
	})
	return &asset, nil
}

// Unassign closes the open assignment and detaches the asset.
func (s *AssetService) Unassign(ctx context.Context, id uint, req UnassignAssetRequest) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if asset.AssignedToID == nil && asset.LocationID == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("asset %s is not assigned", asset.AssetTag)}
	}

	target := s.assignmentTarget(asset.AssignedToID, asset.LocationID)

	var open models.AssetAssignment
	hasOpen := s.db.Where("asset_id = ? AND returned_date IS NULL", asset.ID).
		Order("assigned_date DESC").First(&open).Error == nil

	err := s.db.WithContext(activity.Suppress(ctx)).Transaction(func(tx *gorm.DB) error {
		asset.AssignedToID = nil
		asset.LocationID = nil
		if err := tx.Save(&asset).Error; err != nil {
			return err
		}
		if hasOpen {
			now := time.Now().UTC()
			open.ReturnedDate = &now
			open.ConditionOnReturn = req.ConditionOnReturn
			if req.Notes != "" {
				open.Notes = req.Notes
			}
			return tx.Save(&open).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unassign asset: %w", err)
	}

	entry := activity.Entry{
		EventType: models.EventAssignment,
		Action:    models.ActionUnassigned,
		Message:   fmt.Sprintf("Asset %s returned from %s", asset.AssetTag, target),
	}
	if hasOpen {
		entry.Entity = &open
	} else {
		entry.Entity = &asset
	}
	activity.Record(ctx, s.db, entry)
	return &asset, nil
}

// BulkDelete removes the given assets and records a single bulk entry
// instead of one row per asset.
func (s *AssetService) BulkDelete(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Message: "no asset ids given"}
	}

	var tags []string
	if err := s.db.Model(&models.Asset{}).Where("id IN ?", ids).Pluck("asset_tag", &tags).Error; err != nil {
		return 0, err
	}
	if len(tags) == 0 {
		return 0, ErrNotFound
	}

	res := s.db.WithContext(activity.Suppress(ctx)).Where("id IN ?", ids).Delete(&models.Asset{})
	if res.Error != nil {
		return 0, fmt.Errorf("bulk delete assets: %w", res.Error)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventAsset,
		Action:    models.ActionBulkDeleted,
		Message:   fmt.Sprintf("%d assets deleted", res.RowsAffected),
		Detail:    fmt.Sprintf("Tags: %v", tags),
	})
	return int(res.RowsAffected), nil
}

// BulkStatus sets the status on the given assets in one operation.
func (s *AssetService) BulkStatus(ctx context.Context, ids []uint, status models.AssetStatus) (int, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Message: "no asset ids given"}
	}
	if !models.ValidAssetStatus(status) {
		return 0, &ValidationError{Message: fmt.Sprintf("invalid asset status %q", status)}
	}

	res := s.db.WithContext(activity.Suppress(ctx)).Model(&models.Asset{}).
		Where("id IN ?", ids).Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk status update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventAsset,
		Action:    models.ActionBulkStatus,
		Message:   fmt.Sprintf("%d assets set to %s", res.RowsAffected, status),
	})
	return int(res.RowsAffected), nil
}

func (s *AssetService) assignmentTarget(employeeID, locationID *uint) string {
	if employeeID != nil {
		var emp models.Employee
		if err := s.db.First(&emp, *employeeID).Error; err == nil {
			return emp.String()
		}
		return fmt.Sprintf("employee %d", *employeeID)
	}
	if locationID != nil {
		var loc models.Location
		if err := s.db.First(&loc, *locationID).Error; err == nil {
			return loc.String()
		}
		return fmt.Sprintf("location %d", *locationID)
	}
	return "unknown"
}
