package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/service"
	"github.com/castellan-dev/castellan/internal/table"
)

// AssetHandler handles asset requests. Lifecycle operations are delegated to
// the asset service; read paths query the database directly.
type AssetHandler struct {
	db     *gorm.DB
	assets *service.AssetService
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{db: db, assets: service.NewAssetService(db)}
}

var assetStatusBadges = map[string]string{
	"Pending":   "badge-muted",
	"Active":    "badge-success",
	"In Repair": "badge-warning",
	"Retired":   "badge-muted",
	"Disposed":  "badge-danger",
	"Inactive":  "badge-muted",
}

var assetTable = table.Table{
	Columns: []table.Column{
		{Key: "asset_tag", Label: "Tag", Accessor: "AssetTag", Sortable: true, SortField: "asset_tag",
			Link: func(row any) string { return idLink("/assets/", row) }},
		{Key: "model", Label: "Model", Accessor: func(row any) any {
			a := row.(*models.Asset)
			if a.AssetModel == nil {
				return nil
			}
			return a.AssetModel.String()
		}},
		{Key: "status", Label: "Status", Accessor: func(row any) any {
			return row.(*models.Asset).StatusDisplay()
		}, Sortable: true, SortField: "status", Badge: true, BadgeMap: assetStatusBadges},
		{Key: "assigned_to", Label: "Assigned To", Accessor: "AssignedTo.Name"},
		{Key: "location", Label: "Location", Accessor: "Location.Name"},
		{Key: "company", Label: "Company", Accessor: "Company.Name", Hidden: true},
		{Key: "serial_number", Label: "Serial", Accessor: "SerialNumber", Hidden: true},
		{Key: "purchase_date", Label: "Purchased", Accessor: "PurchaseDate", Sortable: true, SortField: "purchase_date", Hidden: true},
	},
	SearchFields: []string{"asset_tag", "serial_number", "assets.notes"},
	Filters: []table.Filter{
		{Param: "status", Column: "status"},
		{Param: "company_id", Column: "assets.company_id"},
		{Param: "asset_model_id", Column: "asset_model_id"},
		{Param: "location_id", Column: "assets.location_id"},
		{Param: "assigned_to_id", Column: "assigned_to_id"},
		{Param: "unassigned", Apply: func(q *gorm.DB, value string) *gorm.DB {
			if value == "true" || value == "1" {
				return q.Where("assigned_to_id IS NULL AND assets.location_id IS NULL")
			}
			return q
		}},
	},
	DefaultSort: "asset_tag",
}

// ListAssets godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Param q query string false "Search tag, serial or notes"
// @Param status query string false "Filter by status"
// @Param sort query string false "Sort key, prefix with - for descending"
// @Param page query int false "Page number"
// @Param columns query string false "Comma-separated column keys to show"
// @Success 200 {object} table.Result
// @Router /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var assets []models.Asset
	q := h.db.Model(&models.Asset{}).
		Preload("AssetModel").
		Preload("AssignedTo").
		Preload("Location").
		Preload("Company")
	res, err := assetTable.Run(q, assetTable.BindParams(c), &assets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch assets"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// AssetDetailResponse is an asset plus its related history
type AssetDetailResponse struct {
	models.Asset
	Components  []models.Component         `json:"components"`
	Assignments []models.AssetAssignment   `json:"assignments"`
	Maintenance []models.MaintenanceRecord `json:"maintenance"`
}

// GetAsset godoc
// @Summary Get asset by ID with components, assignment and maintenance history
// @Tags assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} AssetDetailResponse
// @Router /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assets.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	detail := AssetDetailResponse{Asset: *asset}
	h.db.Preload("ComponentType").Where("parent_asset_id = ?", id).Find(&detail.Components)
	h.db.Preload("Employee").Preload("Location").
		Where("asset_id = ?", id).Order("assigned_date DESC").Find(&detail.Assignments)
	h.db.Where("asset_id = ?", id).Order("maintenance_date DESC").Find(&detail.Maintenance)

	c.JSON(http.StatusOK, detail)
}

type AssetRequest struct {
	AssetTag           string             `json:"asset_tag"`
	AssetModelID       uint               `json:"asset_model_id" binding:"required"`
	CompanyID          *uint              `json:"company_id"`
	SerialNumber       string             `json:"serial_number"`
	Status             models.AssetStatus `json:"status"`
	Attributes         map[string]any     `json:"attributes"`
	Notes              string             `json:"notes"`
	PurchaseDate       *time.Time         `json:"purchase_date"`
	PurchaseCost       *float64           `json:"purchase_cost"`
	WarrantyExpiryDate *time.Time         `json:"warranty_expiry_date"`
	LocationID         *uint              `json:"location_id"`
	AssignedToID       *uint              `json:"assigned_to_id"`
	RequisitionID      *uint              `json:"requisition_id"`
	InvoiceID          *uint              `json:"invoice_id"`
}

// CreateAsset godoc
// @Summary Create an asset
// @Description Creates an asset. A blank asset_tag is generated from the tag prefix configuration.
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body AssetRequest true "Asset details"
// @Success 201 {object} models.Asset
// @Failure 409 {object} ErrorResponse
// @Router /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), service.CreateAssetRequest{
		AssetTag:           req.AssetTag,
		AssetModelID:       req.AssetModelID,
		CompanyID:          req.CompanyID,
		SerialNumber:       req.SerialNumber,
		Status:             req.Status,
		Attributes:         req.Attributes,
		Notes:              req.Notes,
		PurchaseDate:       req.PurchaseDate,
		PurchaseCost:       req.PurchaseCost,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
		LocationID:         req.LocationID,
		AssignedToID:       req.AssignedToID,
		RequisitionID:      req.RequisitionID,
		InvoiceID:          req.InvoiceID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

type AssetUpdateRequest struct {
	AssetModelID       *uint               `json:"asset_model_id"`
	CompanyID          *uint               `json:"company_id"`
	SerialNumber       *string             `json:"serial_number"`
	Status             *models.AssetStatus `json:"status"`
	Attributes         map[string]any      `json:"attributes"`
	Notes              *string             `json:"notes"`
	PurchaseDate       *time.Time          `json:"purchase_date"`
	PurchaseCost       *float64            `json:"purchase_cost"`
	WarrantyExpiryDate *time.Time          `json:"warranty_expiry_date"`
}

// UpdateAsset godoc
// @Summary Update an asset
// @Description Applies the provided fields only. A status change is logged as its own activity entry.
// @Tags assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param asset body AssetUpdateRequest true "Fields to update"
// @Success 200 {object} models.Asset
// @Router /assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AssetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	asset, err := h.assets.Update(c.Request.Context(), id, service.UpdateAssetRequest{
		AssetModelID:       req.AssetModelID,
		CompanyID:          req.CompanyID,
		SerialNumber:       req.SerialNumber,
		Status:             req.Status,
		Attributes:         req.Attributes,
		Notes:              req.Notes,
		PurchaseDate:       req.PurchaseDate,
		PurchaseCost:       req.PurchaseCost,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// DeleteAsset godoc
// @Summary Delete an asset
// @Tags assets
// @Param id path int true "Asset ID"
// @Success 204
// @Router /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.assets.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateAsset godoc
// @Summary Duplicate an asset
// @Description Creates a copy of the asset with a freshly generated tag and no serial number or assignment.
// @Tags assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 201 {object} models.Asset
// @Router /assets/{id}/duplicate [post]
func (h *AssetHandler) DuplicateAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assets.Duplicate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

type AssetAssignRequest struct {
	EmployeeID            *uint  `json:"employee_id"`
	LocationID            *uint  `json:"location_id"`
	ConditionOnAssignment string `json:"condition_on_assignment"`
	Notes                 string `json:"notes"`
}

// AssignAsset godoc
// @Summary Assign an asset to an employee or location
// @Tags assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param assignment body AssetAssignRequest true "Assignment target"
// @Success 200 {object} models.Asset
// @Failure 409 {object} ErrorResponse
// @Router /assets/{id}/assign [post]
func (h *AssetHandler) AssignAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AssetAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	asset, err := h.assets.Assign(c.Request.Context(), id, service.AssignAssetRequest{
		EmployeeID:            req.EmployeeID,
		LocationID:            req.LocationID,
		ConditionOnAssignment: req.ConditionOnAssignment,
		Notes:                 req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type AssetUnassignRequest struct {
	ConditionOnReturn string `json:"condition_on_return"`
	Notes             string `json:"notes"`
}

// UnassignAsset godoc
// @Summary Return an assigned asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param return body AssetUnassignRequest true "Return details"
// @Success 200 {object} models.Asset
// @Router /assets/{id}/unassign [post]
func (h *AssetHandler) UnassignAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AssetUnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	asset, err := h.assets.Unassign(c.Request.Context(), id, service.UnassignAssetRequest{
		ConditionOnReturn: req.ConditionOnReturn,
		Notes:             req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type BulkAssetRequest struct {
	IDs    []uint             `json:"ids" binding:"required"`
	Status models.AssetStatus `json:"status"`
}

// BulkDeleteAssets godoc
// @Summary Delete multiple assets
// @Description Deletes the given assets and writes a single bulk activity entry.
// @Tags assets
// @Accept json
// @Produce json
// @Param request body BulkAssetRequest true "Asset IDs"
// @Success 200 {object} map[string]int
// @Router /assets/bulk-delete [post]
func (h *AssetHandler) BulkDeleteAssets(c *gin.Context) {
	var req BulkAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	n, err := h.assets.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// BulkStatusAssets godoc
// @Summary Change status of multiple assets
// @Tags assets
// @Accept json
// @Produce json
// @Param request body BulkAssetRequest true "Asset IDs and target status"
// @Success 200 {object} map[string]int
// @Router /assets/bulk-status [post]
func (h *AssetHandler) BulkStatusAssets(c *gin.Context) {
	var req BulkAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	n, err := h.assets.BulkStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

type MaintenanceRequest struct {
	MaintenanceType     models.MaintenanceType `json:"maintenance_type" binding:"required"`
	PerformedBy         string                 `json:"performed_by"`
	MaintenanceDate     *time.Time             `json:"maintenance_date"`
	Cost                *float64               `json:"cost"`
	Description         string                 `json:"description"`
	NextMaintenanceDate *time.Time             `json:"next_maintenance_date"`
}

// AddMaintenance godoc
// @Summary Record a maintenance event for an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param record body MaintenanceRequest true "Maintenance details"
// @Success 201 {object} models.MaintenanceRecord
// @Router /assets/{id}/maintenance [post]
func (h *AssetHandler) AddMaintenance(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := h.db.First(&asset, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset not found"})
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	when := time.Now().UTC()
	if req.MaintenanceDate != nil {
		when = *req.MaintenanceDate
	}

	record := models.MaintenanceRecord{
		AssetID:             asset.ID,
		MaintenanceType:     req.MaintenanceType,
		PerformedBy:         req.PerformedBy,
		MaintenanceDate:     when,
		Cost:                req.Cost,
		Description:         req.Description,
		NextMaintenanceDate: req.NextMaintenanceDate,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record maintenance"})
		return
	}
	c.JSON(http.StatusCreated, record)
}
