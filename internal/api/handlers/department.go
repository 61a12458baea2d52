package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// DepartmentHandler handles department CRUD requests
type DepartmentHandler struct {
	db *gorm.DB
}

func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{db: db}
}

var departmentTable = table.Table{
	Columns: []table.Column{
		{Key: "name", Label: "Name", Accessor: "Name", Sortable: true, SortField: "departments.name",
			Link: func(row any) string { return idLink("/departments/", row) }},
		{Key: "company", Label: "Company", Accessor: "Company.Name"},
		{Key: "default_location", Label: "Default Location", Accessor: "DefaultLocation.Name"},
	},
	SearchFields: []string{"departments.name"},
	Filters: []table.Filter{
		{Param: "company_id", Column: "company_id"},
	},
	DefaultSort: "name",
}

// ListDepartments godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} table.Result
// @Router /departments [get]
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var departments []models.Department
	q := h.db.Model(&models.Department{}).Preload("Company").Preload("DefaultLocation")
	res, err := departmentTable.Run(q, departmentTable.BindParams(c), &departments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch departments"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetDepartment godoc
// @Summary Get department by ID
// @Tags departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} models.Department
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var department models.Department
	if err := h.db.Preload("Company").Preload("DefaultLocation").First(&department, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
		return
	}
	c.JSON(http.StatusOK, department)
}

type DepartmentRequest struct {
	CompanyID         uint   `json:"company_id" binding:"required"`
	Name              string `json:"name" binding:"required"`
	DefaultLocationID *uint  `json:"default_location_id"`
}

// CreateDepartment godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Param department body DepartmentRequest true "Department details"
// @Success 201 {object} models.Department
// @Router /departments [post]
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.db.First(&models.Company{}, req.CompanyID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
		return
	}

	department := models.Department{
		CompanyID:         req.CompanyID,
		Name:              req.Name,
		DefaultLocationID: req.DefaultLocationID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&department).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Department already exists in this company"})
		return
	}
	c.JSON(http.StatusCreated, department)
}

// UpdateDepartment godoc
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param department body DepartmentRequest true "Department details"
// @Success 200 {object} models.Department
// @Router /departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var department models.Department
	if err := h.db.First(&department, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
		return
	}

	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	department.CompanyID = req.CompanyID
	department.Name = req.Name
	department.DefaultLocationID = req.DefaultLocationID

	if err := h.db.WithContext(c.Request.Context()).Save(&department).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Department already exists in this company"})
		return
	}
	c.JSON(http.StatusOK, department)
}

// DeleteDepartment godoc
// @Summary Delete a department
// @Tags departments
// @Param id path int true "Department ID"
// @Success 204
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var department models.Department
	if err := h.db.First(&department, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete department"})
		return
	}
	c.Status(http.StatusNoContent)
}
