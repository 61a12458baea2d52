package tagging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
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
		&models.Company{},
		&models.Location{},
		&models.Department{},
		&models.User{},
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
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tag_prefixes.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	SetConfigPath(path)
	t.Cleanup(func() {
		SetConfigPath("")
		ResetCache()
	})
	return path
}

const testConfig = `
[tag_settings]
sequence_digits = 4
separator = ""

[defaults]
asset = "AST"
component = "CMP"

[companies.ACME]
asset = "ACM"

[companies.ACME.departments.Engineering]
asset = "ENG"
component = "ENGC"
`

func TestResolvePrefix_Hierarchy(t *testing.T) {
	writeConfig(t, testConfig)

	// Department override wins
	if got := ResolvePrefix(KindAsset, "ACME", "Engineering"); got != "ENG" {
		t.Errorf("department override: got %q, want ENG", got)
	}

	// No department override for this kind at the department level? There is
	// one for component too, so check a department without overrides.
	if got := ResolvePrefix(KindAsset, "ACME", "Sales"); got != "ACM" {
		t.Errorf("company fallback: got %q, want ACM", got)
	}

	// Company has no component override, falls through to defaults
	if got := ResolvePrefix(KindComponent, "ACME", "Sales"); got != "CMP" {
		t.Errorf("defaults fallback: got %q, want CMP", got)
	}

	// Unknown company falls through to defaults
	if got := ResolvePrefix(KindAsset, "NOPE", ""); got != "AST" {
		t.Errorf("unknown company: got %q, want AST", got)
	}

	// No company code skips both override tiers
	if got := ResolvePrefix(KindAsset, "", "Engineering"); got != "AST" {
		t.Errorf("no company code: got %q, want AST", got)
	}
}

func TestResolvePrefix_BuiltInFallbacks(t *testing.T) {
	writeConfig(t, "# empty\n")

	if got := ResolvePrefix(KindAsset, "", ""); got != "ASSET" {
		t.Errorf("asset built-in: got %q, want ASSET", got)
	}
	if got := ResolvePrefix(KindComponent, "", ""); got != "COMP" {
		t.Errorf("component built-in: got %q, want COMP", got)
	}
}

func TestResolvePrefix_MissingFile(t *testing.T) {
	SetConfigPath(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	t.Cleanup(func() {
		SetConfigPath("")
		ResetCache()
	})

	if got := ResolvePrefix(KindAsset, "ACME", "Engineering"); got != "ASSET" {
		t.Errorf("missing file: got %q, want ASSET", got)
	}
}

func TestResolvePrefix_MalformedFile(t *testing.T) {
	writeConfig(t, "this is not [valid toml\n==")

	// A broken file must degrade to built-ins, never panic or error
	if got := ResolvePrefix(KindAsset, "ACME", ""); got != "ASSET" {
		t.Errorf("malformed file: got %q, want ASSET", got)
	}

	digits, sep := Settings()
	if digits != 5 || sep != "" {
		t.Errorf("malformed file settings: got %d/%q, want 5/\"\"", digits, sep)
	}
}

func TestSettings(t *testing.T) {
	writeConfig(t, "[tag_settings]\nsequence_digits = 6\nseparator = \"-\"\n")

	digits, sep := Settings()
	if digits != 6 {
		t.Errorf("digits: got %d, want 6", digits)
	}
	if sep != "-" {
		t.Errorf("separator: got %q, want -", sep)
	}
}

func TestSettings_Defaults(t *testing.T) {
	writeConfig(t, "[defaults]\nasset = \"AST\"\n")

	digits, sep := Settings()
	if digits != 5 {
		t.Errorf("default digits: got %d, want 5", digits)
	}
	if sep != "" {
		t.Errorf("default separator: got %q, want empty", sep)
	}
}

func TestHotReload(t *testing.T) {
	path := writeConfig(t, "[defaults]\nasset = \"OLD\"\n")

	if got := ResolvePrefix(KindAsset, "", ""); got != "OLD" {
		t.Fatalf("initial load: got %q, want OLD", got)
	}

	if err := os.WriteFile(path, []byte("[defaults]\nasset = \"NEW\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	// Bump the mtime explicitly so the change is visible regardless of
	// filesystem timestamp granularity.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if got := ResolvePrefix(KindAsset, "", ""); got != "NEW" {
		t.Errorf("after rewrite: got %q, want NEW", got)
	}
}

func TestGenerateAssetTag_Sequence(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	company := models.Company{Name: "Acme Corp", Code: "ACME"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	dept := models.Department{CompanyID: company.ID, Name: "Engineering"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}

	tag := GenerateAssetTag(db, &company, &dept)
	if tag != "ENG0001" {
		t.Fatalf("first tag: got %q, want ENG0001", tag)
	}

	// The tag is not reserved until an asset carrying it is persisted
	again := GenerateAssetTag(db, &company, &dept)
	if again != "ENG0001" {
		t.Errorf("before persist: got %q, want ENG0001", again)
	}

	model := createTestModel(t, db)
	asset := models.Asset{AssetTag: tag, AssetModelID: model.ID}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("create asset: %v", err)
	}

	next := GenerateAssetTag(db, &company, &dept)
	if next != "ENG0002" {
		t.Errorf("second tag: got %q, want ENG0002", next)
	}
}

func TestGenerateAssetTag_SkipsToMax(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	model := createTestModel(t, db)
	for _, existing := range []string{"AST0001", "AST0007"} {
		a := models.Asset{AssetTag: existing, AssetModelID: model.ID}
		if err := db.Create(&a).Error; err != nil {
			t.Fatalf("create asset %s: %v", existing, err)
		}
	}

	tag := GenerateAssetTag(db, nil, nil)
	if tag != "AST0008" {
		t.Errorf("got %q, want AST0008", tag)
	}
}

func TestGenerateAssetTag_IgnoresUnparsableSuffix(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	model := createTestModel(t, db)
	for _, existing := range []string{"AST0003", "ASTLEGACY", "AST-old-9"} {
		a := models.Asset{AssetTag: existing, AssetModelID: model.ID}
		if err := db.Create(&a).Error; err != nil {
			t.Fatalf("create asset %s: %v", existing, err)
		}
	}

	tag := GenerateAssetTag(db, nil, nil)
	if tag != "AST0004" {
		t.Errorf("got %q, want AST0004", tag)
	}
}

func TestGenerateComponentTag(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	tag := GenerateComponentTag(db, nil, nil)
	if tag != "CMP0001" {
		t.Errorf("got %q, want CMP0001", tag)
	}
}

func TestGenerateAssetTagFor_DerivesContext(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	company := models.Company{Name: "Acme Corp", Code: "ACME"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	dept := models.Department{CompanyID: company.ID, Name: "Engineering"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	emp := models.Employee{Name: "Ada Lovelace", DepartmentID: &dept.ID}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}

	asset := models.Asset{CompanyID: &company.ID, AssignedToID: &emp.ID}
	tag := GenerateAssetTagFor(db, &asset)
	if tag != "ENG0001" {
		t.Errorf("got %q, want ENG0001", tag)
	}

	// Without an assignee only the company tier applies
	bare := models.Asset{CompanyID: &company.ID}
	tag = GenerateAssetTagFor(db, &bare)
	if tag != "ACM0001" {
		t.Errorf("company-only context: got %q, want ACM0001", tag)
	}
}

func TestGenerateComponentTagFor_ViaParentAsset(t *testing.T) {
	writeConfig(t, testConfig)
	db := setupTestDB(t)

	company := models.Company{Name: "Acme Corp", Code: "ACME"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	dept := models.Department{CompanyID: company.ID, Name: "Engineering"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	emp := models.Employee{Name: "Ada Lovelace", DepartmentID: &dept.ID}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	model := createTestModel(t, db)
	parent := models.Asset{AssetTag: "ENG0001", AssetModelID: model.ID, CompanyID: &company.ID, AssignedToID: &emp.ID}
	if err := db.Create(&parent).Error; err != nil {
		t.Fatalf("create parent asset: %v", err)
	}

	comp := models.Component{ParentAssetID: &parent.ID, ComponentTypeID: 1}
	tag := GenerateComponentTagFor(db, &comp)
	if tag != "ENGC0001" {
		t.Errorf("got %q, want ENGC0001", tag)
	}

	// Orphan component falls back to defaults
	orphan := models.Component{ComponentTypeID: 1}
	tag = GenerateComponentTagFor(db, &orphan)
	if tag != "CMP0001" {
		t.Errorf("orphan: got %q, want CMP0001", tag)
	}
}

func TestGenerateTag_TimestampFallback(t *testing.T) {
	writeConfig(t, "[defaults]\nasset = \"X\"\n")
	db := setupTestDB(t)

	// With the connection gone every uniqueness probe errors, so the
	// generator must exhaust its budget and still hand back a tag.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	tag := GenerateAssetTag(db, nil, nil)
	if !strings.HasPrefix(tag, "X") {
		t.Fatalf("fallback tag %q lacks prefix", tag)
	}
	suffix := strings.TrimPrefix(tag, "X")
	if len(suffix) < 10 {
		t.Errorf("expected timestamp suffix, got %q", tag)
	}
}

func createTestModel(t *testing.T, db *gorm.DB) models.AssetModel {
	t.Helper()
	cat := models.Category{Name: "Laptops"}
	if err := db.FirstOrCreate(&cat, models.Category{Name: "Laptops"}).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	m := models.AssetModel{CategoryID: cat.ID, Manufacturer: "Generic", ModelName: "G-1000"}
	if err := db.FirstOrCreate(&m, models.AssetModel{CategoryID: cat.ID, Manufacturer: "Generic", ModelName: "G-1000"}).Error; err != nil {
		t.Fatalf("create asset model: %v", err)
	}
	return m
}
