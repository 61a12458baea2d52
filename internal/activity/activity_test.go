package activity

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
		&models.Employee{},
		&models.ComponentType{},
		&models.Component{},
		&models.SparePartsInventory{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := Register(db); err != nil {
		t.Fatalf("failed to register callbacks: %v", err)
	}
	return db
}

func activityRows(t *testing.T, db *gorm.DB) []models.ActivityLog {
	t.Helper()
	var rows []models.ActivityLog
	if err := db.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("failed to load activity rows: %v", err)
	}
	return rows
}

func clearActivity(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := Suppress(context.Background())
	if err := db.WithContext(ctx).Where("1 = 1").Delete(&models.ActivityLog{}).Error; err != nil {
		t.Fatalf("failed to clear activity rows: %v", err)
	}
}

func TestAutoLog_CreateUpdateDelete(t *testing.T) {
	db := setupTestDB(t)

	company := models.Company{Name: "Initech", Code: "INI", IsActive: true}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rows := activityRows(t, db)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after create, got %d", len(rows))
	}
	if rows[0].EventType != models.EventCompany || rows[0].Action != models.ActionCreated {
		t.Errorf("unexpected row: %s %s", rows[0].EventType, rows[0].Action)
	}
	if rows[0].EntityType != string(models.EventCompany) || rows[0].EntityID != company.ID {
		t.Errorf("entity reference wrong: %s/%d", rows[0].EntityType, rows[0].EntityID)
	}
	if rows[0].URL != "/companies/1" {
		t.Errorf("expected feed link /companies/1, got %q", rows[0].URL)
	}

	if err := db.Model(&company).Update("name", "Initech Global").Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rows = activityRows(t, db)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after update, got %d", len(rows))
	}
	if rows[1].Action != models.ActionUpdated {
		t.Errorf("expected updated action, got %s", rows[1].Action)
	}

	if err := db.Delete(&company).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	rows = activityRows(t, db)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows after delete, got %d", len(rows))
	}
	if rows[2].Action != models.ActionDeleted {
		t.Errorf("expected deleted action, got %s", rows[2].Action)
	}
	if rows[2].EntityRepr == "" {
		t.Error("expected the delete row to carry an entity snapshot")
	}
}

func TestAutoLog_SuppressedContext(t *testing.T) {
	db := setupTestDB(t)

	ctx := Suppress(context.Background())
	company := models.Company{Name: "Quiet Co", Code: "QC", IsActive: true}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if rows := activityRows(t, db); len(rows) != 0 {
		t.Errorf("expected no rows under suppression, got %d", len(rows))
	}

	// Suppression ends with the derived context
	other := models.Company{Name: "Loud Co", Code: "LC", IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rows := activityRows(t, db); len(rows) != 1 {
		t.Errorf("expected 1 row for the unsuppressed create, got %d", len(rows))
	}
}

func TestAutoLog_SuppressionClearsAfterFailedOperation(t *testing.T) {
	db := setupTestDB(t)

	seed := models.Company{Name: "Dup Co", Code: "DUP", IsActive: true}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	clearActivity(t, db)

	ctx := Suppress(context.Background())
	dup := models.Company{Name: "Dup Co", Code: "DUP", IsActive: true}
	if err := db.WithContext(ctx).Create(&dup).Error; err == nil {
		t.Fatal("expected the duplicate create to fail")
	}

	// The failed scope must not leak suppression into later operations
	next := models.Company{Name: "Next Co", Code: "NXT", IsActive: true}
	if err := db.Create(&next).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	rows := activityRows(t, db)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after the error path, got %d", len(rows))
	}
	if rows[0].EntityID != next.ID {
		t.Errorf("expected the row to reference the later create, got entity %d", rows[0].EntityID)
	}
}

func TestAutoLog_UntrackedEntityIgnored(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{ID: uuid.New(), Username: "worker", Email: "w@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if rows := activityRows(t, db); len(rows) != 0 {
		t.Errorf("user accounts are not auto-tracked, got %d rows", len(rows))
	}
}

func TestRecord_DoesNotSelfIntercept(t *testing.T) {
	db := setupTestDB(t)

	err := Record(context.Background(), db, Entry{
		EventType: models.EventAsset,
		Action:    models.ActionAssigned,
		Message:   "Asset LAP00001 assigned to Jane Doe",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	rows := activityRows(t, db)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(rows))
	}
	if rows[0].Message != "Asset LAP00001 assigned to Jane Doe" {
		t.Errorf("unexpected message: %q", rows[0].Message)
	}
}

func TestRecord_ActorFromContext(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	ctx := WithActor(context.Background(), &user)
	company := models.Company{Name: "Hooli", Code: "HOO", IsActive: true}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rows := activityRows(t, db)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ActorID == nil || *rows[0].ActorID != user.ID {
		t.Error("expected the ambient user stamped as actor")
	}
	if rows[0].ActorName != "jdoe" {
		t.Errorf("expected actor name jdoe, got %q", rows[0].ActorName)
	}
}

func TestComponentMutation_SyncsSparePartsInventory(t *testing.T) {
	db := setupTestDB(t)

	ct := models.ComponentType{TypeName: "RAM"}
	if err := db.Create(&ct).Error; err != nil {
		t.Fatalf("create type failed: %v", err)
	}
	clearActivity(t, db)

	comp := models.Component{
		ComponentTag:    "COMP00001",
		ComponentTypeID: ct.ID,
		Status:          models.ComponentStatusSpare,
	}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("create component failed: %v", err)
	}

	var inv models.SparePartsInventory
	if err := db.Where("component_type_id = ?", ct.ID).First(&inv).Error; err != nil {
		t.Fatalf("expected an inventory row after create: %v", err)
	}
	if inv.QuantityAvailable != 1 {
		t.Errorf("expected 1 available, got %d", inv.QuantityAvailable)
	}

	// The sync itself must not add a second activity row
	rows := activityRows(t, db)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for the component create, got %d", len(rows))
	}
	if rows[0].EventType != models.EventComponent {
		t.Errorf("unexpected event type %s", rows[0].EventType)
	}

	if err := db.Model(&comp).Update("status", models.ComponentStatusInstalled).Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := db.Where("component_type_id = ?", ct.ID).First(&inv).Error; err != nil {
		t.Fatalf("inventory row vanished: %v", err)
	}
	if inv.QuantityAvailable != 0 {
		t.Errorf("expected 0 available after install, got %d", inv.QuantityAvailable)
	}
}

func TestComponentDelete_DecrementsSparePartsInventory(t *testing.T) {
	db := setupTestDB(t)

	ct := models.ComponentType{TypeName: "SSD"}
	if err := db.Create(&ct).Error; err != nil {
		t.Fatalf("create type failed: %v", err)
	}

	comps := []models.Component{
		{ComponentTag: "COMP00010", ComponentTypeID: ct.ID, Status: models.ComponentStatusSpare},
		{ComponentTag: "COMP00011", ComponentTypeID: ct.ID, Status: models.ComponentStatusSpare},
	}
	for i := range comps {
		if err := db.Create(&comps[i]).Error; err != nil {
			t.Fatalf("create component failed: %v", err)
		}
	}

	var inv models.SparePartsInventory
	if err := db.Where("component_type_id = ?", ct.ID).First(&inv).Error; err != nil {
		t.Fatalf("expected an inventory row: %v", err)
	}
	if inv.QuantityAvailable != 2 {
		t.Fatalf("expected 2 available, got %d", inv.QuantityAvailable)
	}

	if err := db.Delete(&comps[0]).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := db.Where("component_type_id = ?", ct.ID).First(&inv).Error; err != nil {
		t.Fatalf("inventory row vanished after delete: %v", err)
	}
	if inv.QuantityAvailable != 1 {
		t.Errorf("expected 1 available after delete, got %d", inv.QuantityAvailable)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	s := strings.Repeat("a", 510) + "日本語"
	got := truncate(s, 512)
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got[len(got)-4:])
	}
	if len(got) > 512 {
		t.Errorf("expected at most 512 bytes, got %d", len(got))
	}
	if got != s[:510] {
		t.Errorf("expected the partial rune dropped, got %d bytes", len(got))
	}

	if truncate("short", 512) != "short" {
		t.Error("strings under the limit must pass through unchanged")
	}
}

func TestTypeLabel(t *testing.T) {
	cases := map[models.EventType]string{
		models.EventAsset:      "Asset",
		models.EventAssetModel: "Asset Model",
		models.EventSparePart:  "Spare Part",
	}
	for kind, want := range cases {
		if got := typeLabel(kind); got != want {
			t.Errorf("typeLabel(%s) = %q, want %q", kind, got, want)
		}
	}
}
