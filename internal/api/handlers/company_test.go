package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Company{},
		&models.Department{},
		&models.Location{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := activity.Register(db); err != nil {
		t.Fatalf("failed to register activity callbacks: %v", err)
	}
	return db
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateCompany_RecordsActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerTestDB(t)
	handler := NewCompanyHandler(db)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/companies", CompanyRequest{
		Name: "Acme Corp",
		Code: "ACME",
	})

	handler.CreateCompany(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var company models.Company
	if err := json.Unmarshal(w.Body.Bytes(), &company); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if company.ID == 0 {
		t.Error("expected company ID to be set")
	}
	if !company.IsActive {
		t.Error("expected new company to be active by default")
	}

	var logs []models.ActivityLog
	db.Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("expected 1 activity entry, got %d", len(logs))
	}
	if logs[0].EventType != models.EventCompany || logs[0].Action != models.ActionCreated {
		t.Errorf("unexpected activity entry: %s %s", logs[0].EventType, logs[0].Action)
	}
}

func TestCreateCompany_DuplicateCodeConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerTestDB(t)
	handler := NewCompanyHandler(db)

	db.Create(&models.Company{Name: "Acme Corp", Code: "ACME", IsActive: true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/companies", CompanyRequest{
		Name: "Acme Two",
		Code: "ACME",
	})

	handler.CreateCompany(c)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestListCompanies_SearchAndSort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerTestDB(t)
	handler := NewCompanyHandler(db)

	for _, c := range []models.Company{
		{Name: "Acme Corp", Code: "ACME", IsActive: true},
		{Name: "Globex", Code: "GLX", IsActive: true},
		{Name: "Acme Labs", Code: "ACL", IsActive: true},
	} {
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("failed to seed company: %v", err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/companies?q=acme&sort=-name", nil)

	handler.ListCompanies(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var res table.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if res.TotalCount != 2 {
		t.Fatalf("expected 2 matching companies, got %d", res.TotalCount)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	first := res.Rows[0].Cells[0]
	if first.Value != "Acme Labs" {
		t.Errorf("expected Acme Labs first under -name sort, got %v", first.Value)
	}
	if first.Link == "" {
		t.Error("expected a detail link on the name cell")
	}
}

func TestUpdateCompany_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerTestDB(t)
	handler := NewCompanyHandler(db)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	c.Request = jsonRequest(t, http.MethodPut, "/api/v1/companies/999", CompanyRequest{
		Name: "Ghost", Code: "GHO",
	})

	handler.UpdateCompany(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDeleteCompany_RemovesRowAndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerTestDB(t)
	handler := NewCompanyHandler(db)

	company := models.Company{Name: "Acme Corp", Code: "ACME", IsActive: true}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	db.Where("1 = 1").Delete(&models.ActivityLog{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/companies/1", nil)

	handler.DeleteCompany(c)

	// c.Status defers the header write, so read the status off the writer
	if c.Writer.Status() != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, c.Writer.Status())
	}

	var count int64
	db.Model(&models.Company{}).Count(&count)
	if count != 0 {
		t.Errorf("expected company to be deleted, %d remain", count)
	}

	var logs []models.ActivityLog
	db.Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("expected 1 activity entry for the delete, got %d", len(logs))
	}
	if logs[0].Action != models.ActionDeleted {
		t.Errorf("expected deleted action, got %s", logs[0].Action)
	}
	if logs[0].EntityRepr != "Acme Corp" {
		t.Errorf("expected entity snapshot to survive deletion, got %q", logs[0].EntityRepr)
	}
}
