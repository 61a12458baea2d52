package table

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type maker struct {
	ID   uint
	Name string
}

type widget struct {
	ID      uint
	Name    string
	Status  string
	Price   float64
	MakerID *uint
	Maker   *maker
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&maker{}, &widget{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedWidgets(t *testing.T, db *gorm.DB) {
	t.Helper()
	m := maker{Name: "Initech"}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed maker: %v", err)
	}
	rows := []widget{
		{Name: "Alpha Widget", Status: "active", Price: 10, MakerID: &m.ID},
		{Name: "beta widget", Status: "retired", Price: 30},
		{Name: "Gamma Gadget", Status: "active", Price: 20, MakerID: &m.ID},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed widgets: %v", err)
	}
}

func widgetTable() *Table {
	return &Table{
		Columns: []Column{
			{Key: "name", Label: "Name", Accessor: "Name", Sortable: true, SortField: "name"},
			{Key: "status", Label: "Status", Accessor: "Status", Sortable: true, SortField: "status",
				Badge: true, BadgeMap: map[string]string{"active": "badge-green", "retired": "badge-gray"}},
			{Key: "maker", Label: "Maker", Accessor: "Maker.Name"},
			{Key: "price", Label: "Price", Accessor: "Price", Sortable: true, SortField: "price", Hidden: true},
		},
		SearchFields: []string{"name", "status"},
		Filters:      []Filter{{Param: "status", Column: "status"}},
		DefaultSort:  "name",
		PageSize:     25,
	}
}

func TestRun_Search(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Query: "WIDGET"}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalCount != 2 {
		t.Errorf("total: got %d, want 2", res.TotalCount)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	// Case-insensitive and ordered by the default sort
	if rows[0].Name != "Alpha Widget" || rows[1].Name != "beta widget" {
		t.Errorf("unexpected rows: %q, %q", rows[0].Name, rows[1].Name)
	}
}

func TestRun_Filter(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Filters: map[string]string{"status": "retired"}}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalCount != 1 || len(rows) != 1 || rows[0].Status != "retired" {
		t.Errorf("filter mismatch: total=%d rows=%d", res.TotalCount, len(rows))
	}
}

func TestRun_SortAndToggle(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Sort: "-price", PageSize: 50}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rows[0].Price != 30 || rows[2].Price != 10 {
		t.Errorf("descending price sort broken: %+v", rows)
	}

	// Headers carry the toggle state for the current sort column
	var priceHeader *Header
	for i := range res.Headers {
		if res.Headers[i].Key == "price" {
			priceHeader = &res.Headers[i]
		}
	}
	if priceHeader != nil {
		t.Fatalf("hidden column should not appear in headers")
	}

	for _, h := range res.Headers {
		if h.Key == "name" && h.NextSort != "name" {
			t.Errorf("non-current sortable header NextSort: got %q, want name", h.NextSort)
		}
	}
}

func TestRun_CurrentSortHeader(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Sort: "name"}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, h := range res.Headers {
		if h.Key != "name" {
			continue
		}
		if !h.IsCurrent || h.Direction != "asc" {
			t.Errorf("current header state: %+v", h)
		}
		if h.NextSort != "-name" {
			t.Errorf("toggle: got %q, want -name", h.NextSort)
		}
	}
}

func TestRun_RejectsUnknownSort(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Sort: "name; DROP TABLE widgets"}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Falls back to the default sort instead of passing it to ORDER BY
	if res.Sort != "name" {
		t.Errorf("sort: got %q, want name", res.Sort)
	}
	if rows[0].Name != "Alpha Widget" {
		t.Errorf("default sort not applied: %q", rows[0].Name)
	}
}

func TestRun_Pagination(t *testing.T) {
	db := setupTestDB(t)
	tbl := widgetTable()

	for i := 1; i <= 7; i++ {
		w := widget{Name: fmt.Sprintf("Widget %02d", i), Status: "active"}
		if err := db.Create(&w).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Page: 2, PageSize: 3}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalCount != 7 || res.TotalPages != 3 || res.Page != 2 {
		t.Errorf("pagination meta: total=%d pages=%d page=%d", res.TotalCount, res.TotalPages, res.Page)
	}
	if len(rows) != 3 || rows[0].Name != "Widget 04" {
		t.Errorf("page window wrong: %d rows, first %q", len(rows), rows[0].Name)
	}
}

func TestRun_CellRendering(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()
	tbl.Columns[0].Link = func(row any) string {
		return fmt.Sprintf("/widgets/%d", row.(*widget).ID)
	}

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}).Preload("Maker"), Params{}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("rendered rows: got %d, want 3", len(res.Rows))
	}

	first := res.Rows[0] // Alpha Widget
	if first.Cells[0].Value != "Alpha Widget" {
		t.Errorf("cell value: got %v", first.Cells[0].Value)
	}
	if first.Cells[0].Link == "" {
		t.Errorf("link builder not applied")
	}
	if first.Cells[1].BadgeClass != "badge-green" {
		t.Errorf("badge class: got %q, want badge-green", first.Cells[1].BadgeClass)
	}
	if first.Cells[2].Value != "Initech" {
		t.Errorf("relation accessor: got %v, want Initech", first.Cells[2].Value)
	}

	// "beta widget" sorts last under binary collation and has no maker
	last := res.Rows[2]
	if last.Cells[2].Value != nil {
		t.Errorf("nil relation should yield nil, got %v", last.Cells[2].Value)
	}
}

func TestRun_FuncAccessor(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()
	tbl.Columns = append(tbl.Columns, Column{
		Key:   "label",
		Label: "Label",
		Accessor: func(row any) any {
			w := row.(*widget)
			return w.Name + " (" + w.Status + ")"
		},
	})

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	last := res.Rows[0].Cells[len(res.Rows[0].Cells)-1]
	if last.Value != "Alpha Widget (active)" {
		t.Errorf("func accessor: got %v", last.Value)
	}
}

func TestRun_VisibleColumnsOverride(t *testing.T) {
	db := setupTestDB(t)
	seedWidgets(t, db)
	tbl := widgetTable()

	var rows []widget
	res, err := tbl.Run(db.Model(&widget{}), Params{Visible: []string{"name", "price"}}, &rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Headers) != 2 {
		t.Fatalf("headers: got %d, want 2", len(res.Headers))
	}
	// The hidden column becomes visible when explicitly requested
	if res.Headers[1].Key != "price" {
		t.Errorf("second header: got %q, want price", res.Headers[1].Key)
	}
	if res.Rows[0].Cells[1].Value != 10.0 {
		t.Errorf("price cell: got %v, want 10", res.Rows[0].Cells[1].Value)
	}
}

func TestRunSlice_Passthrough(t *testing.T) {
	tbl := widgetTable()
	rows := []widget{
		{ID: 1, Name: "One", Status: "active"},
		{ID: 2, Name: "Two", Status: "active"},
		{ID: 3, Name: "Three", Status: "retired"},
	}

	res := tbl.RunSlice(rows, Params{Page: 2, PageSize: 2})
	if res.TotalCount != 3 || res.TotalPages != 2 {
		t.Errorf("meta: total=%d pages=%d", res.TotalCount, res.TotalPages)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("window: got %d rows, want 1", len(res.Rows))
	}
	if res.Rows[0].Cells[0].Value != "Three" {
		t.Errorf("got %v, want Three", res.Rows[0].Cells[0].Value)
	}
}

func TestBindParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tbl := widgetTable()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET",
		"/widgets?q=alpha&sort=-name&page=2&page_size=10&status=active&columns=name,%20status", nil)

	p := tbl.BindParams(c)
	if p.Query != "alpha" || p.Sort != "-name" || p.Page != 2 || p.PageSize != 10 {
		t.Errorf("params: %+v", p)
	}
	if p.Filters["status"] != "active" {
		t.Errorf("filter: %+v", p.Filters)
	}
	if len(p.Visible) != 2 || p.Visible[1] != "status" {
		t.Errorf("columns: %+v", p.Visible)
	}
}
