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

// ComponentHandler handles component requests
type ComponentHandler struct {
	db         *gorm.DB
	components *service.ComponentService
}

func NewComponentHandler(db *gorm.DB) *ComponentHandler {
	return &ComponentHandler{db: db, components: service.NewComponentService(db)}
}

var componentStatusBadges = map[string]string{
	"Installed": "badge-success",
	"Spare":     "badge-info",
	"Failed":    "badge-danger",
	"Removed":   "badge-muted",
	"Disposed":  "badge-muted",
}

var componentTable = table.Table{
	Columns: []table.Column{
		{Key: "component_tag", Label: "Tag", Accessor: "ComponentTag", Sortable: true, SortField: "component_tag",
			Link: func(row any) string { return idLink("/components/", row) }},
		{Key: "type", Label: "Type", Accessor: "ComponentType.TypeName"},
		{Key: "status", Label: "Status", Accessor: func(row any) any {
			return row.(*models.Component).StatusDisplay()
		}, Sortable: true, SortField: "status", Badge: true, BadgeMap: componentStatusBadges},
		{Key: "parent_asset", Label: "Installed In", Accessor: "ParentAsset.AssetTag",
			Link: func(row any) string {
				comp := row.(*models.Component)
				if comp.ParentAsset == nil {
					return ""
				}
				return idLink("/assets/", comp.ParentAsset)
			}},
		{Key: "specifications", Label: "Specifications", Accessor: "Specifications"},
		{Key: "manufacturer", Label: "Manufacturer", Accessor: "Manufacturer", Hidden: true},
		{Key: "serial_number", Label: "Serial", Accessor: "SerialNumber", Hidden: true},
	},
	SearchFields: []string{"component_tag", "components.serial_number", "specifications", "components.manufacturer"},
	Filters: []table.Filter{
		{Param: "status", Column: "components.status"},
		{Param: "component_type_id", Column: "component_type_id"},
		{Param: "parent_asset_id", Column: "parent_asset_id"},
	},
	DefaultSort: "component_tag",
}

// ListComponents godoc
// @Summary List components
// @Tags components
// @Produce json
// @Success 200 {object} table.Result
// @Router /components [get]
func (h *ComponentHandler) ListComponents(c *gin.Context) {
	var components []models.Component
	q := h.db.Model(&models.Component{}).
		Preload("ComponentType").
		Preload("ParentAsset")
	res, err := componentTable.Run(q, componentTable.BindParams(c), &components)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch components"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ComponentDetailResponse is a component plus its install/remove history
type ComponentDetailResponse struct {
	models.Component
	History []models.ComponentHistory `json:"history"`
}

// GetComponent godoc
// @Summary Get component by ID with its history
// @Tags components
// @Produce json
// @Param id path int true "Component ID"
// @Success 200 {object} ComponentDetailResponse
// @Router /components/{id} [get]
func (h *ComponentHandler) GetComponent(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	component, err := h.components.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	history, err := h.components.History(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch component history"})
		return
	}

	c.JSON(http.StatusOK, ComponentDetailResponse{Component: *component, History: history})
}

type ComponentRequest struct {
	ComponentTag       string                 `json:"component_tag"`
	ComponentTypeID    uint                   `json:"component_type_id" binding:"required"`
	ParentAssetID      *uint                  `json:"parent_asset_id"`
	Manufacturer       string                 `json:"manufacturer"`
	Model              string                 `json:"model"`
	SerialNumber       string                 `json:"serial_number"`
	Specifications     string                 `json:"specifications"`
	Status             models.ComponentStatus `json:"status"`
	PurchaseDate       *time.Time             `json:"purchase_date"`
	WarrantyExpiryDate *time.Time             `json:"warranty_expiry_date"`
	Notes              string                 `json:"notes"`
}

// CreateComponent godoc
// @Summary Create a component
// @Description Creates a component. A blank component_tag is generated from the tag prefix configuration.
// @Tags components
// @Accept json
// @Produce json
// @Param component body ComponentRequest true "Component details"
// @Success 201 {object} models.Component
// @Router /components [post]
func (h *ComponentHandler) CreateComponent(c *gin.Context) {
	var req ComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	component, err := h.components.Create(c.Request.Context(), service.CreateComponentRequest{
		ComponentTag:       req.ComponentTag,
		ComponentTypeID:    req.ComponentTypeID,
		ParentAssetID:      req.ParentAssetID,
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		SerialNumber:       req.SerialNumber,
		Specifications:     req.Specifications,
		Status:             req.Status,
		PurchaseDate:       req.PurchaseDate,
		WarrantyExpiryDate: req.WarrantyExpiryDate,
		Notes:              req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, component)
}

type ComponentInstallRequest struct {
	ParentAssetID       uint   `json:"parent_asset_id" binding:"required"`
	PerformedByID       *uint  `json:"performed_by_id"`
	Reason              string `json:"reason"`
	PreviousComponentID *uint  `json:"previous_component_id"`
}

// InstallComponent godoc
// @Summary Install a component into an asset
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param install body ComponentInstallRequest true "Install details"
// @Success 200 {object} models.Component
// @Failure 409 {object} ErrorResponse
// @Router /components/{id}/install [post]
func (h *ComponentHandler) InstallComponent(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ComponentInstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	component, err := h.components.Install(c.Request.Context(), id, service.InstallComponentRequest{
		ParentAssetID:       req.ParentAssetID,
		PerformedByID:       req.PerformedByID,
		Reason:              req.Reason,
		PreviousComponentID: req.PreviousComponentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

type ComponentRemoveRequest struct {
	PerformedByID *uint                  `json:"performed_by_id"`
	Reason        string                 `json:"reason"`
	NewStatus     models.ComponentStatus `json:"new_status"`
}

// RemoveComponent godoc
// @Summary Remove a component from its parent asset
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param removal body ComponentRemoveRequest true "Removal details"
// @Success 200 {object} models.Component
// @Router /components/{id}/remove [post]
func (h *ComponentHandler) RemoveComponent(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ComponentRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	component, err := h.components.Remove(c.Request.Context(), id, service.RemoveComponentRequest{
		PerformedByID: req.PerformedByID,
		Reason:        req.Reason,
		NewStatus:     req.NewStatus,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

// DeleteComponent godoc
// @Summary Delete a component
// @Tags components
// @Param id path int true "Component ID"
// @Success 204
// @Router /components/{id} [delete]
func (h *ComponentHandler) DeleteComponent(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.components.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
