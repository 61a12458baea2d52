package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
)

// ComponentTypeHandler handles component type CRUD requests
type ComponentTypeHandler struct {
	db *gorm.DB
}

func NewComponentTypeHandler(db *gorm.DB) *ComponentTypeHandler {
	return &ComponentTypeHandler{db: db}
}

// ListComponentTypes godoc
// @Summary List component types
// @Tags catalog
// @Produce json
// @Success 200 {array} models.ComponentType
// @Router /component-types [get]
func (h *ComponentTypeHandler) ListComponentTypes(c *gin.Context) {
	var types []models.ComponentType
	if err := h.db.Order("type_name").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch component types"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// GetComponentType godoc
// @Summary Get component type by ID
// @Tags catalog
// @Produce json
// @Param id path int true "Component type ID"
// @Success 200 {object} models.ComponentType
// @Router /component-types/{id} [get]
func (h *ComponentTypeHandler) GetComponentType(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var componentType models.ComponentType
	if err := h.db.First(&componentType, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Component type not found"})
		return
	}
	c.JSON(http.StatusOK, componentType)
}

type ComponentTypeRequest struct {
	TypeName   string         `json:"type_name" binding:"required"`
	Attributes map[string]any `json:"attributes"`
}

// CreateComponentType godoc
// @Summary Create a component type
// @Tags catalog
// @Accept json
// @Produce json
// @Param type body ComponentTypeRequest true "Component type details"
// @Success 201 {object} models.ComponentType
// @Router /component-types [post]
func (h *ComponentTypeHandler) CreateComponentType(c *gin.Context) {
	var req ComponentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	componentType := models.ComponentType{TypeName: req.TypeName, Attributes: req.Attributes}
	if err := h.db.WithContext(c.Request.Context()).Create(&componentType).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Component type already exists"})
		return
	}
	c.JSON(http.StatusCreated, componentType)
}

// UpdateComponentType godoc
// @Summary Update a component type
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Component type ID"
// @Param type body ComponentTypeRequest true "Component type details"
// @Success 200 {object} models.ComponentType
// @Router /component-types/{id} [put]
func (h *ComponentTypeHandler) UpdateComponentType(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var componentType models.ComponentType
	if err := h.db.First(&componentType, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Component type not found"})
		return
	}

	var req ComponentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	componentType.TypeName = req.TypeName
	componentType.Attributes = req.Attributes
	if err := h.db.WithContext(c.Request.Context()).Save(&componentType).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Component type already exists"})
		return
	}
	c.JSON(http.StatusOK, componentType)
}

// DeleteComponentType godoc
// @Summary Delete a component type
// @Tags catalog
// @Param id path int true "Component type ID"
// @Success 204
// @Router /component-types/{id} [delete]
func (h *ComponentTypeHandler) DeleteComponentType(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var componentType models.ComponentType
	if err := h.db.First(&componentType, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Component type not found"})
		return
	}

	var inUse int64
	h.db.Model(&models.Component{}).Where("component_type_id = ?", id).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Component type is referenced by components"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&componentType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete component type"})
		return
	}
	c.Status(http.StatusNoContent)
}
