package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// SparePartsHandler exposes the spare parts inventory. Quantities are derived
// from component records; only reorder thresholds and storage metadata are
// editable here.
type SparePartsHandler struct {
	db *gorm.DB
}

func NewSparePartsHandler(db *gorm.DB) *SparePartsHandler {
	return &SparePartsHandler{db: db}
}

var sparePartsTable = table.Table{
	Columns: []table.Column{
		{Key: "component_type", Label: "Component Type", Accessor: "ComponentType.TypeName"},
		{Key: "specifications", Label: "Specifications", Accessor: "Specifications"},
		{Key: "quantity_available", Label: "Available", Accessor: "QuantityAvailable", Sortable: true, SortField: "quantity_available", Align: "right"},
		{Key: "quantity_minimum", Label: "Minimum", Accessor: "QuantityMinimum", Sortable: true, SortField: "quantity_minimum", Align: "right"},
		{Key: "needs_restock", Label: "Restock", Accessor: func(row any) any {
			return row.(*models.SparePartsInventory).NeedsRestock()
		}},
		{Key: "location", Label: "Location", Accessor: "Location.Name", Hidden: true},
	},
	SearchFields: []string{"specifications"},
	Filters: []table.Filter{
		{Param: "component_type_id", Column: "spare_parts_inventory.component_type_id"},
		{Param: "restock", Apply: func(q *gorm.DB, value string) *gorm.DB {
			if value == "true" || value == "1" {
				return q.Where("quantity_available < quantity_minimum")
			}
			return q
		}},
	},
	DefaultSort: "quantity_available",
}

// ListSpareParts godoc
// @Summary List spare parts inventory
// @Tags spare-parts
// @Produce json
// @Param restock query bool false "Only rows below their reorder threshold"
// @Success 200 {object} table.Result
// @Router /spare-parts [get]
func (h *SparePartsHandler) ListSpareParts(c *gin.Context) {
	var spares []models.SparePartsInventory
	q := h.db.Model(&models.SparePartsInventory{}).Preload("ComponentType").Preload("Location")
	res, err := sparePartsTable.Run(q, sparePartsTable.BindParams(c), &spares)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch spare parts"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type SparePartUpdateRequest struct {
	QuantityMinimum *int    `json:"quantity_minimum"`
	LocationID      *uint   `json:"location_id"`
	Notes           *string `json:"notes"`
}

// UpdateSparePart godoc
// @Summary Update reorder threshold or storage metadata of a spare parts row
// @Tags spare-parts
// @Accept json
// @Produce json
// @Param id path int true "Spare parts row ID"
// @Param update body SparePartUpdateRequest true "Fields to update"
// @Success 200 {object} models.SparePartsInventory
// @Router /spare-parts/{id} [patch]
func (h *SparePartsHandler) UpdateSparePart(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var spare models.SparePartsInventory
	if err := h.db.First(&spare, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Spare parts row not found"})
		return
	}

	var req SparePartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if req.QuantityMinimum != nil {
		spare.QuantityMinimum = *req.QuantityMinimum
	}
	if req.LocationID != nil {
		spare.LocationID = req.LocationID
	}
	if req.Notes != nil {
		spare.Notes = *req.Notes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&spare).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update spare parts row"})
		return
	}
	c.JSON(http.StatusOK, spare)
}

// SyncSpareParts godoc
// @Summary Recompute spare part quantities from component records
// @Tags spare-parts
// @Success 204
// @Router /spare-parts/sync [post]
func (h *SparePartsHandler) SyncSpareParts(c *gin.Context) {
	if err := models.SyncAllSpareParts(h.db); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sync spare parts"})
		return
	}
	c.Status(http.StatusNoContent)
}
