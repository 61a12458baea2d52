package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// CompanyHandler handles company CRUD requests
type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

var companyTable = table.Table{
	Columns: []table.Column{
		{Key: "name", Label: "Name", Accessor: "Name", Sortable: true, SortField: "name",
			Link: func(row any) string { return idLink("/companies/", row) }},
		{Key: "code", Label: "Code", Accessor: "Code", Sortable: true, SortField: "code"},
		{Key: "address", Label: "Address", Accessor: "Address", Hidden: true},
		{Key: "is_active", Label: "Active", Accessor: "IsActive", Sortable: true, SortField: "is_active"},
	},
	SearchFields: []string{"name", "code", "address"},
	Filters: []table.Filter{
		{Param: "active", Column: "is_active"},
	},
	DefaultSort: "name",
}

// ListCompanies godoc
// @Summary List companies
// @Tags companies
// @Produce json
// @Param q query string false "Search query"
// @Param sort query string false "Sort key, prefix with - for descending"
// @Param page query int false "Page number"
// @Success 200 {object} table.Result
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var companies []models.Company
	res, err := companyTable.Run(h.db.Model(&models.Company{}), companyTable.BindParams(c), &companies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch companies"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCompany godoc
// @Summary Get company by ID
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Company
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var company models.Company
	if err := h.db.First(&company, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
		return
	}
	c.JSON(http.StatusOK, company)
}

type CompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
	IsActive *bool  `json:"is_active"`
}

// CreateCompany godoc
// @Summary Create a company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body CompanyRequest true "Company details"
// @Success 201 {object} models.Company
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	company := models.Company{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	} else {
		company.IsActive = true
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&company).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Company with this name or code already exists"})
		return
	}
	c.JSON(http.StatusCreated, company)
}

// UpdateCompany godoc
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param company body CompanyRequest true "Company details"
// @Success 200 {object} models.Company
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var company models.Company
	if err := h.db.First(&company, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	company.Name = req.Name
	company.Code = req.Code
	company.Address = req.Address
	company.Notes = req.Notes
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&company).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Company with this name or code already exists"})
		return
	}
	c.JSON(http.StatusOK, company)
}

// DeleteCompany godoc
// @Summary Delete a company
// @Tags companies
// @Param id path int true "Company ID"
// @Success 204
// @Router /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var company models.Company
	if err := h.db.First(&company, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete company"})
		return
	}
	c.Status(http.StatusNoContent)
}
