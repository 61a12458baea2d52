package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Location{},
		&models.Department{},
		&models.Employee{},
		&models.Category{},
		&models.AssetModel{},
		&models.Vendor{},
		&models.Requisition{},
		&models.RequisitionItem{},
		&models.PurchaseInvoice{},
		&models.InvoiceLineItem{},
		&models.Asset{},
		&models.ComponentType{},
		&models.Component{},
		&models.ComponentHistory{},
		&models.SparePartsInventory{},
		&models.AssetAssignment{},
		&models.MaintenanceRecord{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := activity.Register(db); err != nil {
		t.Fatalf("failed to register callbacks: %v", err)
	}
	return db
}

type fixtures struct {
	company    models.Company
	department models.Department
	location   models.Location
	employee   models.Employee
	category   models.Category
	assetModel models.AssetModel
	compType   models.ComponentType
	vendor     models.Vendor
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{}

	f.company = models.Company{Name: "Acme Corp", Code: "ACME"}
	if err := db.Create(&f.company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	f.location = models.Location{Name: "HQ"}
	if err := db.Create(&f.location).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}
	f.department = models.Department{CompanyID: f.company.ID, Name: "Engineering"}
	if err := db.Create(&f.department).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}
	f.employee = models.Employee{Name: "Ada Lovelace", DepartmentID: &f.department.ID}
	if err := db.Create(&f.employee).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	f.category = models.Category{Name: "Laptops"}
	if err := db.Create(&f.category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	f.assetModel = models.AssetModel{CategoryID: f.category.ID, Manufacturer: "Generic", ModelName: "G-1000"}
	if err := db.Create(&f.assetModel).Error; err != nil {
		t.Fatalf("seed asset model: %v", err)
	}
	f.compType = models.ComponentType{TypeName: "RAM"}
	if err := db.Create(&f.compType).Error; err != nil {
		t.Fatalf("seed component type: %v", err)
	}
	f.vendor = models.Vendor{VendorName: "Initech Supplies"}
	if err := db.Create(&f.vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return f
}

func countActivity(t *testing.T, db *gorm.DB, eventType models.EventType, action models.Action) int64 {
	t.Helper()
	var n int64
	err := db.Model(&models.ActivityLog{}).
		Where("event_type = ? AND action = ?", eventType, action).Count(&n).Error
	if err != nil {
		t.Fatalf("count activity: %v", err)
	}
	return n
}

func TestAssetCreate_GeneratesTagAndLogs(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)

	asset, err := svc.Create(context.Background(), CreateAssetRequest{
		AssetModelID: f.assetModel.ID,
		CompanyID:    &f.company.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if asset.AssetTag == "" {
		t.Error("expected a generated asset tag")
	}
	if asset.Status != models.AssetStatusPending {
		t.Errorf("status: got %s, want pending", asset.Status)
	}
	if n := countActivity(t, db, models.EventAsset, models.ActionCreated); n != 1 {
		t.Errorf("created entries: got %d, want 1", n)
	}
}

func TestAssetCreate_RejectsDuplicateTag(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)

	req := CreateAssetRequest{AssetTag: "DUP001", AssetModelID: f.assetModel.ID}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), req)
	var conflict *ConflictError
	if !asConflict(err, &conflict) {
		t.Errorf("expected ConflictError, got %v", err)
	}
}

func TestAssetCreate_RejectsDualAssignment(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)

	_, err := svc.Create(context.Background(), CreateAssetRequest{
		AssetModelID: f.assetModel.ID,
		AssignedToID: &f.employee.ID,
		LocationID:   &f.location.ID,
	})
	var vErr *ValidationError
	if !asValidation(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestAssetUpdate_StatusChangeGetsDedicatedEntry(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)

	asset, err := svc.Create(context.Background(), CreateAssetRequest{AssetModelID: f.assetModel.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active := models.AssetStatusActive
	updated, err := svc.Update(context.Background(), asset.ID, UpdateAssetRequest{Status: &active})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.AssetStatusActive {
		t.Errorf("status not updated: %s", updated.Status)
	}

	if n := countActivity(t, db, models.EventAsset, models.ActionStatusChanged); n != 1 {
		t.Errorf("status_changed entries: got %d, want 1", n)
	}
	// The generic updated row is suppressed for the same save
	if n := countActivity(t, db, models.EventAsset, models.ActionUpdated); n != 0 {
		t.Errorf("updated entries: got %d, want 0", n)
	}

	var row models.ActivityLog
	if err := db.Where("action = ?", models.ActionStatusChanged).First(&row).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if len(row.Changes["status"]) != 2 {
		t.Errorf("changes not recorded: %+v", row.Changes)
	}
}

func TestAssetAssignAndUnassign(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)
	ctx := context.Background()

	asset, err := svc.Create(ctx, CreateAssetRequest{AssetModelID: f.assetModel.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	assigned, err := svc.Assign(ctx, asset.ID, AssignAssetRequest{EmployeeID: &f.employee.ID})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if assigned.AssignedToID == nil || *assigned.AssignedToID != f.employee.ID {
		t.Errorf("assignee not set: %+v", assigned.AssignedToID)
	}
	if assigned.Status != models.AssetStatusActive {
		t.Errorf("assignment should activate pending assets, got %s", assigned.Status)
	}

	// Already assigned
	if _, err := svc.Assign(ctx, asset.ID, AssignAssetRequest{LocationID: &f.location.ID}); err == nil {
		t.Error("second assignment should conflict")
	}

	var open models.AssetAssignment
	if err := db.Where("asset_id = ? AND returned_date IS NULL", asset.ID).First(&open).Error; err != nil {
		t.Fatalf("open assignment row missing: %v", err)
	}

	unassigned, err := svc.Unassign(ctx, asset.ID, UnassignAssetRequest{ConditionOnReturn: "good"})
	if err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	if unassigned.AssignedToID != nil {
		t.Error("assignee still set after unassign")
	}

	if err := db.First(&open, open.ID).Error; err != nil {
		t.Fatalf("reload assignment: %v", err)
	}
	if open.ReturnedDate == nil || open.ConditionOnReturn != "good" {
		t.Errorf("assignment not closed: %+v", open)
	}

	if n := countActivity(t, db, models.EventAssignment, models.ActionAssigned); n != 1 {
		t.Errorf("assigned entries: got %d, want 1", n)
	}
	if n := countActivity(t, db, models.EventAssignment, models.ActionUnassigned); n != 1 {
		t.Errorf("unassigned entries: got %d, want 1", n)
	}
}

func TestAssetAssign_RequiresExactlyOneTarget(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)
	ctx := context.Background()

	asset, err := svc.Create(ctx, CreateAssetRequest{AssetModelID: f.assetModel.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Assign(ctx, asset.ID, AssignAssetRequest{}); err == nil {
		t.Error("no target should be rejected")
	}
	if _, err := svc.Assign(ctx, asset.ID, AssignAssetRequest{
		EmployeeID: &f.employee.ID, LocationID: &f.location.ID,
	}); err == nil {
		t.Error("both targets should be rejected")
	}
}

func TestAssetBulkOperations(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 3; i++ {
		a, err := svc.Create(ctx, CreateAssetRequest{AssetModelID: f.assetModel.ID})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, a.ID)
	}

	n, err := svc.BulkStatus(ctx, ids, models.AssetStatusRetired)
	if err != nil {
		t.Fatalf("BulkStatus failed: %v", err)
	}
	if n != 3 {
		t.Errorf("bulk status count: got %d, want 3", n)
	}
	if c := countActivity(t, db, models.EventAsset, models.ActionBulkStatus); c != 1 {
		t.Errorf("bulk_status entries: got %d, want 1", c)
	}

	n, err = svc.BulkDelete(ctx, ids)
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if n != 3 {
		t.Errorf("bulk delete count: got %d, want 3", n)
	}
	// One bulk entry, not one per asset
	if c := countActivity(t, db, models.EventAsset, models.ActionBulkDeleted); c != 1 {
		t.Errorf("bulk_deleted entries: got %d, want 1", c)
	}
	if c := countActivity(t, db, models.EventAsset, models.ActionDeleted); c != 0 {
		t.Errorf("per-asset deleted entries: got %d, want 0", c)
	}

	var left int64
	db.Model(&models.Asset{}).Count(&left)
	if left != 0 {
		t.Errorf("assets remaining: %d", left)
	}
}

func TestAssetDuplicate(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewAssetService(db)
	ctx := context.Background()

	src, err := svc.Create(ctx, CreateAssetRequest{
		AssetModelID: f.assetModel.ID,
		Attributes:   map[string]any{"ram": "16GB"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dup, err := svc.Duplicate(ctx, src.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if dup.AssetTag == src.AssetTag || dup.AssetTag == "" {
		t.Errorf("duplicate tag: %q vs source %q", dup.AssetTag, src.AssetTag)
	}
	if dup.Attributes["ram"] != "16GB" {
		t.Errorf("attributes not copied: %+v", dup.Attributes)
	}
	if n := countActivity(t, db, models.EventAsset, models.ActionDuplicated); n != 1 {
		t.Errorf("duplicated entries: got %d, want 1", n)
	}
}

func TestComponentLifecycle(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	assets := NewAssetService(db)
	comps := NewComponentService(db)
	ctx := context.Background()

	parent, err := assets.Create(ctx, CreateAssetRequest{AssetModelID: f.assetModel.ID})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	// Spare component, no parent
	comp, err := comps.Create(ctx, CreateComponentRequest{ComponentTypeID: f.compType.ID})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if comp.Status != models.ComponentStatusSpare {
		t.Errorf("parentless component should default to spare, got %s", comp.Status)
	}
	if comp.ComponentTag == "" {
		t.Error("expected a generated component tag")
	}

	// Spare pool tracks the new spare
	var inv models.SparePartsInventory
	if err := db.Where("component_type_id = ?", f.compType.ID).First(&inv).Error; err != nil {
		t.Fatalf("spare inventory row missing: %v", err)
	}
	if inv.QuantityAvailable != 1 {
		t.Errorf("spare quantity: got %d, want 1", inv.QuantityAvailable)
	}

	// Install
	installed, err := comps.Install(ctx, comp.ID, InstallComponentRequest{ParentAssetID: parent.ID})
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if installed.Status != models.ComponentStatusInstalled || installed.ParentAssetID == nil {
		t.Errorf("install state: %+v", installed)
	}

	if err := db.Where("component_type_id = ?", f.compType.ID).First(&inv).Error; err != nil {
		t.Fatalf("spare inventory: %v", err)
	}
	if inv.QuantityAvailable != 0 {
		t.Errorf("spare quantity after install: got %d, want 0", inv.QuantityAvailable)
	}

	// Double install conflicts
	if _, err := comps.Install(ctx, comp.ID, InstallComponentRequest{ParentAssetID: parent.ID}); err == nil {
		t.Error("installing an installed component should conflict")
	}

	// Remove back to spare
	removed, err := comps.Remove(ctx, comp.ID, RemoveComponentRequest{})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed.Status != models.ComponentStatusSpare || removed.ParentAssetID != nil {
		t.Errorf("remove state: %+v", removed)
	}

	history, err := comps.History(comp.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history rows: got %d, want 2", len(history))
	}
}

func TestComponentCreate_InstalledRequiresParent(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewComponentService(db)

	_, err := svc.Create(context.Background(), CreateComponentRequest{
		ComponentTypeID: f.compType.ID,
		Status:          models.ComponentStatusInstalled,
	})
	var vErr *ValidationError
	if !asValidation(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestRequisitionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	assets := NewAssetService(db)
	reqs := NewRequisitionService(db)
	ctx := context.Background()

	r, err := reqs.Create(ctx, CreateRequisitionRequest{
		RequisitionNumber: "REQ-2026-001",
		CompanyID:         f.company.ID,
		DepartmentID:      f.department.ID,
		RequestedByID:     f.employee.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Status != models.RequisitionStatusPending {
		t.Errorf("status: got %s, want pending", r.Status)
	}

	// No items yet: cannot fulfill
	if _, err := reqs.Fulfill(ctx, r.ID); err == nil {
		t.Error("fulfilling an empty requisition should fail")
	}

	asset, err := assets.Create(ctx, CreateAssetRequest{AssetModelID: f.assetModel.ID})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	item, err := reqs.AddItem(ctx, r.ID, AddRequisitionItemRequest{AssetID: &asset.ID})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if item.ItemType != models.RequisitionItemAsset {
		t.Errorf("item type: got %s, want asset", item.ItemType)
	}

	// Back reference stamped on the asset
	var reloaded models.Asset
	if err := db.First(&reloaded, asset.ID).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if reloaded.RequisitionID == nil || *reloaded.RequisitionID != r.ID {
		t.Error("asset requisition back reference not set")
	}

	// Same asset cannot be attached twice
	other, err := reqs.Create(ctx, CreateRequisitionRequest{
		RequisitionNumber: "REQ-2026-002",
		CompanyID:         f.company.ID,
		DepartmentID:      f.department.ID,
		RequestedByID:     f.employee.ID,
	})
	if err != nil {
		t.Fatalf("create second requisition: %v", err)
	}
	if _, err := reqs.AddItem(ctx, other.ID, AddRequisitionItemRequest{AssetID: &asset.ID}); err == nil {
		t.Error("re-attaching an asset should conflict")
	}

	fulfilled, err := reqs.Fulfill(ctx, r.ID)
	if err != nil {
		t.Fatalf("Fulfill failed: %v", err)
	}
	if fulfilled.FulfilledDate == nil {
		t.Error("fulfilled date not set")
	}

	// Fulfilled requisitions reject new items
	comp := models.Component{ComponentTypeID: f.compType.ID, ComponentTag: "CMPX", Status: models.ComponentStatusSpare}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("create component: %v", err)
	}
	if _, err := reqs.AddItem(ctx, r.ID, AddRequisitionItemRequest{ComponentID: &comp.ID}); err == nil {
		t.Error("adding items to a fulfilled requisition should fail")
	}

	if n := countActivity(t, db, models.EventRequisition, models.ActionFulfilled); n != 1 {
		t.Errorf("fulfilled entries: got %d, want 1", n)
	}
}

func TestRequisitionCancel(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	reqs := NewRequisitionService(db)
	ctx := context.Background()

	r, err := reqs.Create(ctx, CreateRequisitionRequest{
		RequisitionNumber: "REQ-2026-003",
		CompanyID:         f.company.ID,
		DepartmentID:      f.department.ID,
		RequestedByID:     f.employee.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cancelled, err := reqs.Cancel(ctx, r.ID, "budget cut")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.RequisitionStatusCancelled || cancelled.CancellationReason != "budget cut" {
		t.Errorf("cancel state: %+v", cancelled)
	}

	if _, err := reqs.Cancel(ctx, r.ID, "again"); err == nil {
		t.Error("cancelling twice should fail")
	}
}

func TestInvoiceCreateAndReceive(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	invoices := NewInvoiceService(db)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, CreateInvoiceRequest{
		InvoiceNumber: "INV-1001",
		CompanyID:     f.company.ID,
		VendorID:      f.vendor.ID,
		LineItems: []CreateLineItemRequest{
			{
				CompanyID:    f.company.ID,
				DepartmentID: f.department.ID,
				ItemType:     models.LineItemAsset,
				Description:  "Laptops",
				Quantity:     2,
				ItemCost:     1200,
				AssetModelID: &f.assetModel.ID,
			},
			{
				CompanyID:       f.company.ID,
				DepartmentID:    f.department.ID,
				ItemType:        models.LineItemComponent,
				Description:     "RAM sticks",
				Quantity:        4,
				ItemCost:        80,
				ComponentTypeID: &f.compType.ID,
			},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(inv.LineItems) != 2 {
		t.Fatalf("line items: got %d, want 2", len(inv.LineItems))
	}
	// Total recomputed from lines: 2*1200 + 4*80
	if inv.TotalAmount != 2720 {
		t.Errorf("total: got %.2f, want 2720", inv.TotalAmount)
	}

	assetLine := inv.LineItems[0]
	created, err := invoices.ReceiveLineItem(ctx, inv.ID, assetLine.ID, ReceiveLineItemRequest{
		Quantity:      2,
		SerialNumbers: []string{"SN-1", "SN-2"},
	})
	if err != nil {
		t.Fatalf("ReceiveLineItem failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created items: got %d, want 2", len(created))
	}

	var assetCount int64
	db.Model(&models.Asset{}).Where("invoice_line_item_id = ?", assetLine.ID).Count(&assetCount)
	if assetCount != 2 {
		t.Errorf("assets created: got %d, want 2", assetCount)
	}

	// Over-receive rejected
	if _, err := invoices.ReceiveLineItem(ctx, inv.ID, assetLine.ID, ReceiveLineItemRequest{Quantity: 1}); err == nil {
		t.Error("receiving past the line quantity should fail")
	}

	// Component line feeds the spare pool
	compLine := inv.LineItems[1]
	if _, err := invoices.ReceiveLineItem(ctx, inv.ID, compLine.ID, ReceiveLineItemRequest{Quantity: 4}); err != nil {
		t.Fatalf("receive component line: %v", err)
	}
	var spares models.SparePartsInventory
	if err := db.Where("component_type_id = ?", f.compType.ID).First(&spares).Error; err != nil {
		t.Fatalf("spare inventory: %v", err)
	}
	if spares.QuantityAvailable != 4 {
		t.Errorf("spare quantity: got %d, want 4", spares.QuantityAvailable)
	}
}

func TestInvoiceMarkPaid(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	invoices := NewInvoiceService(db)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, CreateInvoiceRequest{
		InvoiceNumber: "INV-1002",
		CompanyID:     f.company.ID,
		VendorID:      f.vendor.ID,
		TotalAmount:   500,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paid, err := invoices.MarkPaid(ctx, inv.ID, MarkInvoicePaidRequest{PaymentMethod: "Bank"})
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid.PaymentStatus != models.PaymentStatusPaid || paid.PaymentDate == nil {
		t.Errorf("payment state: %+v", paid)
	}

	if _, err := invoices.MarkPaid(ctx, inv.ID, MarkInvoicePaidRequest{}); err == nil {
		t.Error("paying a paid invoice should conflict")
	}

	if n := countActivity(t, db, models.EventInvoice, models.ActionPaid); n != 1 {
		t.Errorf("paid entries: got %d, want 1", n)
	}
}

func TestServiceErrors_NotFound(t *testing.T) {
	db := setupTestDB(t)
	seedFixtures(t, db)
	ctx := context.Background()

	if _, err := NewAssetService(db).Get(9999); err != ErrNotFound {
		t.Errorf("asset get: expected ErrNotFound, got %v", err)
	}
	if err := NewAssetService(db).Delete(ctx, 9999); err != ErrNotFound {
		t.Errorf("asset delete: expected ErrNotFound, got %v", err)
	}
	if _, err := NewComponentService(db).Get(9999); err != ErrNotFound {
		t.Errorf("component get: expected ErrNotFound, got %v", err)
	}
	if _, err := NewRequisitionService(db).Fulfill(ctx, 9999); err != ErrNotFound {
		t.Errorf("requisition fulfill: expected ErrNotFound, got %v", err)
	}
	if _, err := NewInvoiceService(db).Get(9999); err != ErrNotFound {
		t.Errorf("invoice get: expected ErrNotFound, got %v", err)
	}
}

func asValidation(err error, target **ValidationError) bool {
	if err == nil {
		return false
	}
	v, ok := err.(*ValidationError)
	if ok {
		*target = v
	}
	return ok
}

func asConflict(err error, target **ConflictError) bool {
	if err == nil {
		return false
	}
	c, ok := err.(*ConflictError)
	if ok {
		*target = c
	}
	return ok
}
