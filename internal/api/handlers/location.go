package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// LocationHandler handles location CRUD requests
type LocationHandler struct {
	db *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{db: db}
}

var locationTable = table.Table{
	Columns: []table.Column{
		{Key: "name", Label: "Name", Accessor: "Name", Sortable: true, SortField: "name",
			Link: func(row any) string { return idLink("/locations/", row) }},
		{Key: "city", Label: "City", Accessor: "City", Sortable: true, SortField: "city"},
		{Key: "country", Label: "Country", Accessor: "Country", Sortable: true, SortField: "country"},
		{Key: "address", Label: "Address", Accessor: "Address", Hidden: true},
	},
	SearchFields: []string{"name", "city", "country", "address"},
	Filters: []table.Filter{
		{Param: "country", Column: "country"},
	},
	DefaultSort: "name",
}

// ListLocations godoc
// @Summary List locations
// @Tags locations
// @Produce json
// @Success 200 {object} table.Result
// @Router /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	var locations []models.Location
	res, err := locationTable.Run(h.db.Model(&models.Location{}), locationTable.BindParams(c), &locations)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch locations"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetLocation godoc
// @Summary Get location by ID
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} models.Location
// @Router /locations/{id} [get]
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var location models.Location
	if err := h.db.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Location not found"})
		return
	}
	c.JSON(http.StatusOK, location)
}

type LocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Country string `json:"country"`
}

// CreateLocation godoc
// @Summary Create a location
// @Tags locations
// @Accept json
// @Produce json
// @Param location body LocationRequest true "Location details"
// @Success 201 {object} models.Location
// @Router /locations [post]
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	location := models.Location{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Zipcode: req.Zipcode,
		Country: req.Country,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

// UpdateLocation godoc
// @Summary Update a location
// @Tags locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param location body LocationRequest true "Location details"
// @Success 200 {object} models.Location
// @Router /locations/{id} [put]
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var location models.Location
	if err := h.db.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Location not found"})
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	location.Name = req.Name
	location.Address = req.Address
	location.City = req.City
	location.Zipcode = req.Zipcode
	location.Country = req.Country

	if err := h.db.WithContext(c.Request.Context()).Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation godoc
// @Summary Delete a location
// @Tags locations
// @Param id path int true "Location ID"
// @Success 204
// @Router /locations/{id} [delete]
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var location models.Location
	if err := h.db.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Location not found"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete location"})
		return
	}
	c.Status(http.StatusNoContent)
}
