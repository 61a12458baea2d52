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

// InvoiceService contains the business logic for purchase invoices: line
// items, receiving purchased items into inventory, and payment tracking.
type InvoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// Get returns an invoice with its line items and relations.
func (s *InvoiceService) Get(id uint) (*models.PurchaseInvoice, error) {
	var inv models.PurchaseInvoice
	err := s.db.
		Preload("Company").
		Preload("Vendor").
		Preload("ReceivedBy").
		Preload("LineItems").
		Preload("LineItems.AssetModel").
		Preload("LineItems.ComponentType").
		First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Create validates and creates a new invoice with its line items. The total
// is recomputed from the lines when any are given.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*models.PurchaseInvoice, error) {
	if req.InvoiceNumber == "" {
		return nil, &ValidationError{Message: "invoice number is required"}
	}

	var count int64
	if err := s.db.Model(&models.PurchaseInvoice{}).
		Where("invoice_number = ?", req.InvoiceNumber).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: fmt.Sprintf("invoice %q already exists", req.InvoiceNumber)}
	}

	date := req.InvoiceDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	inv := models.PurchaseInvoice{
		InvoiceNumber: req.InvoiceNumber,
		CompanyID:     req.CompanyID,
		VendorID:      req.VendorID,
		InvoiceDate:   date,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: models.PaymentStatusUnpaid,
		Notes:         req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		for i, line := range req.LineItems {
			if line.Quantity < 1 {
				return &ValidationError{Message: fmt.Sprintf("line %d: quantity must be at least 1", i+1)}
			}
			row := models.InvoiceLineItem{
				InvoiceID:       inv.ID,
				LineNumber:      i + 1,
				CompanyID:       line.CompanyID,
				DepartmentID:    line.DepartmentID,
				ItemType:        line.ItemType,
				Description:     line.Description,
				Quantity:        line.Quantity,
				ItemCost:        line.ItemCost,
				AssetModelID:    line.AssetModelID,
				ComponentTypeID: line.ComponentTypeID,
				Notes:           line.Notes,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		if len(req.LineItems) > 0 {
			return models.RefreshInvoiceTotal(tx, inv.ID)
		}
		return nil
	})
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, vErr
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	return s.Get(inv.ID)
}

// AddLineItem appends a line to an existing invoice and refreshes the total.
func (s *InvoiceService) AddLineItem(ctx context.Context, invoiceID uint, line CreateLineItemRequest) (*models.InvoiceLineItem, error) {
	var inv models.PurchaseInvoice
	if err := s.db.First(&inv, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if line.Quantity < 1 {
		return nil, &ValidationError{Message: "quantity must be at least 1"}
	}

	var maxLine int
	s.db.Model(&models.InvoiceLineItem{}).Where("invoice_id = ?", inv.ID).
		Select("COALESCE(MAX(line_number), 0)").Scan(&maxLine)

	row := models.InvoiceLineItem{
		InvoiceID:       inv.ID,
		LineNumber:      maxLine + 1,
		CompanyID:       line.CompanyID,
		DepartmentID:    line.DepartmentID,
		ItemType:        line.ItemType,
		Description:     line.Description,
		Quantity:        line.Quantity,
		ItemCost:        line.ItemCost,
		AssetModelID:    line.AssetModelID,
		ComponentTypeID: line.ComponentTypeID,
		Notes:           line.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return models.RefreshInvoiceTotal(tx, inv.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("add line item: %w", err)
	}
	return &row, nil
}

// ReceiveLineItem materializes purchased items from a line: assets for asset
// lines, spare components for component lines. Receiving is capped at the
// line quantity across all receipts.
func (s *InvoiceService) ReceiveLineItem(ctx context.Context, invoiceID, lineID uint, req ReceiveLineItemRequest) ([]any, error) {
	var line models.InvoiceLineItem
	if err := s.db.Where("id = ? AND invoice_id = ?", lineID, invoiceID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch line.ItemType {
	case models.LineItemAsset, models.LineItemComponent:
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("%s lines cannot be received into inventory", line.ItemType)}
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	received, err := line.ReceivedCount(s.db)
	if err != nil {
		return nil, err
	}
	remaining := int64(line.Quantity) - received
	if remaining <= 0 {
		return nil, &ConflictError{Message: "line is already fully received"}
	}
	if int64(quantity) > remaining {
		return nil, &ValidationError{Message: fmt.Sprintf("only %d of %d items remain to receive", remaining, line.Quantity)}
	}

	var inv models.PurchaseInvoice
	if err := s.db.First(&inv, invoiceID).Error; err != nil {
		return nil, err
	}

	serial := func(i int) string {
		if i < len(req.SerialNumbers) {
			return req.SerialNumbers[i]
		}
		return ""
	}

	created := make([]any, 0, quantity)
	err = s.db.WithContext(activity.Suppress(ctx)).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < quantity; i++ {
			if line.ItemType == models.LineItemAsset {
				if line.AssetModelID == nil {
					return &ValidationError{Message: "asset line has no asset model to create from"}
				}
				asset := models.Asset{
					AssetModelID:      *line.AssetModelID,
					CompanyID:         &line.CompanyID,
					SerialNumber:      serial(i),
					Status:            models.AssetStatusPending,
					PurchaseDate:      &inv.InvoiceDate,
					InvoiceID:         &inv.ID,
					InvoiceLineItemID: &line.ID,
				}
				cost := line.ItemCost
				asset.PurchaseCost = &cost
				asset.AssetTag = tagging.GenerateAssetTagFor(tx, &asset)
				if err := tx.Create(&asset).Error; err != nil {
					return err
				}
				created = append(created, &asset)
			} else {
				if line.ComponentTypeID == nil {
					return &ValidationError{Message: "component line has no component type to create from"}
				}
				comp := models.Component{
					ComponentTypeID:   *line.ComponentTypeID,
					SerialNumber:      serial(i),
					Status:            models.ComponentStatusSpare,
					PurchaseDate:      &inv.InvoiceDate,
					InvoiceID:         &inv.ID,
					InvoiceLineItemID: &line.ID,
				}
				comp.ComponentTag = tagging.GenerateComponentTagFor(tx, &comp)
				if err := tx.Create(&comp).Error; err != nil {
					return err
				}
				created = append(created, &comp)
			}
		}

		// Stamp receiver on first receipt
		if inv.ReceivedDate == nil {
			now := time.Now().UTC()
			inv.ReceivedDate = &now
			inv.ReceivedByID = req.ReceivedByID
			return tx.Save(&inv).Error
		}
		return nil
	})
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, vErr
		}
		return nil, fmt.Errorf("receive line item: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventLineItem,
		Action:    models.ActionFulfilled,
		Message:   fmt.Sprintf("%d %s(s) received from invoice %s line %d", quantity, line.ItemType, inv.InvoiceNumber, line.LineNumber),
		Entity:    &line,
	})

	// Component receipts change the spare pool
	if line.ItemType == models.LineItemComponent && line.ComponentTypeID != nil {
		_ = models.SyncSparePartsForType(s.db.WithContext(activity.Suppress(ctx)), *line.ComponentTypeID)
	}

	return created, nil
}

// MarkPaid records a payment against the invoice.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uint, req MarkInvoicePaidRequest) (*models.PurchaseInvoice, error) {
	var inv models.PurchaseInvoice
	if err := s.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentStatusPaid
	}
	switch status {
	case models.PaymentStatusPaid, models.PaymentStatusPartiallyPaid, models.PaymentStatusUnpaid:
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("invalid payment status %q", status)}
	}
	if inv.PaymentStatus == models.PaymentStatusPaid && status == models.PaymentStatusPaid {
		return nil, &ConflictError{Message: fmt.Sprintf("invoice %s is already paid", inv.InvoiceNumber)}
	}

	inv.PaymentStatus = status
	inv.PaymentMethod = req.PaymentMethod
	inv.PaymentReference = req.PaymentReference
	if status != models.PaymentStatusUnpaid {
		date := req.PaymentDate
		if date == nil {
			now := time.Now().UTC()
			date = &now
		}
		inv.PaymentDate = date
	} else {
		inv.PaymentDate = nil
	}

	if err := s.db.WithContext(activity.Suppress(ctx)).Save(&inv).Error; err != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}

	activity.Record(ctx, s.db, activity.Entry{
		EventType: models.EventInvoice,
		Action:    models.ActionPaid,
		Message:   fmt.Sprintf("Invoice %s marked %s", inv.InvoiceNumber, inv.PaymentStatusDisplay()),
		Entity:    &inv,
	})
	return &inv, nil
}

// Delete removes an invoice together with its line items.
func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	var inv models.PurchaseInvoice
	if err := s.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}
