package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// AssetModelHandler handles asset model CRUD requests
type AssetModelHandler struct {
	db *gorm.DB
}

func NewAssetModelHandler(db *gorm.DB) *AssetModelHandler {
	return &AssetModelHandler{db: db}
}

var assetModelTable = table.Table{
	Columns: []table.Column{
		{Key: "model_name", Label: "Model", Accessor: "ModelName", Sortable: true, SortField: "model_name",
			Link: func(row any) string { return idLink("/asset-models/", row) }},
		{Key: "manufacturer", Label: "Manufacturer", Accessor: "Manufacturer", Sortable: true, SortField: "manufacturer"},
		{Key: "category", Label: "Category", Accessor: "Category.Name"},
		{Key: "model_number", Label: "Part Number", Accessor: "ModelNumber", Hidden: true},
	},
	SearchFields: []string{"model_name", "manufacturer", "model_number"},
	Filters: []table.Filter{
		{Param: "category_id", Column: "category_id"},
		{Param: "manufacturer", Column: "manufacturer"},
	},
	DefaultSort: "model_name",
}

// ListAssetModels godoc
// @Summary List asset models
// @Tags catalog
// @Produce json
// @Success 200 {object} table.Result
// @Router /asset-models [get]
func (h *AssetModelHandler) ListAssetModels(c *gin.Context) {
	var assetModels []models.AssetModel
	q := h.db.Model(&models.AssetModel{}).Preload("Category")
	res, err := assetModelTable.Run(q, assetModelTable.BindParams(c), &assetModels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch asset models"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetAssetModel godoc
// @Summary Get asset model by ID
// @Tags catalog
// @Produce json
// @Param id path int true "Asset model ID"
// @Success 200 {object} models.AssetModel
// @Router /asset-models/{id} [get]
func (h *AssetModelHandler) GetAssetModel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var assetModel models.AssetModel
	if err := h.db.Preload("Category").First(&assetModel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset model not found"})
		return
	}
	c.JSON(http.StatusOK, assetModel)
}

type AssetModelRequest struct {
	CategoryID   uint   `json:"category_id" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"model_name" binding:"required"`
	ModelNumber  string `json:"model_number"`
	Notes        string `json:"notes"`
}

// CreateAssetModel godoc
// @Summary Create an asset model
// @Tags catalog
// @Accept json
// @Produce json
// @Param model body AssetModelRequest true "Asset model details"
// @Success 201 {object} models.AssetModel
// @Router /asset-models [post]
func (h *AssetModelHandler) CreateAssetModel(c *gin.Context) {
	var req AssetModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.db.First(&models.Category{}, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Category not found"})
		return
	}

	assetModel := models.AssetModel{
		CategoryID:   req.CategoryID,
		Manufacturer: req.Manufacturer,
		ModelName:    req.ModelName,
		ModelNumber:  req.ModelNumber,
		Notes:        req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&assetModel).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Asset model already exists"})
		return
	}
	c.JSON(http.StatusCreated, assetModel)
}

// UpdateAssetModel godoc
// @Summary Update an asset model
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Asset model ID"
// @Param model body AssetModelRequest true "Asset model details"
// @Success 200 {object} models.AssetModel
// @Router /asset-models/{id} [put]
func (h *AssetModelHandler) UpdateAssetModel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var assetModel models.AssetModel
	if err := h.db.First(&assetModel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset model not found"})
		return
	}

	var req AssetModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	assetModel.CategoryID = req.CategoryID
	assetModel.Manufacturer = req.Manufacturer
	assetModel.ModelName = req.ModelName
	assetModel.ModelNumber = req.ModelNumber
	assetModel.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(&assetModel).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Asset model already exists"})
		return
	}
	c.JSON(http.StatusOK, assetModel)
}

// DeleteAssetModel godoc
// @Summary Delete an asset model
// @Tags catalog
// @Param id path int true "Asset model ID"
// @Success 204
// @Router /asset-models/{id} [delete]
func (h *AssetModelHandler) DeleteAssetModel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var assetModel models.AssetModel
	if err := h.db.First(&assetModel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset model not found"})
		return
	}

	var inUse int64
	h.db.Model(&models.Asset{}).Where("asset_model_id = ?", id).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Asset model is referenced by assets"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&assetModel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete asset model"})
		return
	}
	c.Status(http.StatusNoContent)
}
