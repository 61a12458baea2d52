package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// VendorHandler handles vendor CRUD requests
type VendorHandler struct {
	db *gorm.DB
}

func NewVendorHandler(db *gorm.DB) *VendorHandler {
	return &VendorHandler{db: db}
}

var vendorTable = table.Table{
	Columns: []table.Column{
		{Key: "vendor_name", Label: "Vendor", Accessor: "VendorName", Sortable: true, SortField: "vendor_name",
			Link: func(row any) string { return idLink("/vendors/", row) }},
		{Key: "contact_person", Label: "Contact", Accessor: "ContactPerson"},
		{Key: "email", Label: "Email", Accessor: "Email"},
		{Key: "phone", Label: "Phone", Accessor: "Phone", Hidden: true},
		{Key: "address", Label: "Address", Accessor: "Address", Hidden: true},
	},
	SearchFields: []string{"vendor_name", "contact_person", "email", "phone"},
	DefaultSort:  "vendor_name",
}

// ListVendors godoc
// @Summary List vendors
// @Tags vendors
// @Produce json
// @Success 200 {object} table.Result
// @Router /vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	res, err := vendorTable.Run(h.db.Model(&models.Vendor{}), vendorTable.BindParams(c), &vendors)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch vendors"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetVendor godoc
// @Summary Get vendor by ID, including its invoices
// @Tags vendors
// @Produce json
// @Param id path int true "Vendor ID"
// @Success 200 {object} VendorDetailResponse
// @Router /vendors/{id} [get]
func (h *VendorHandler) GetVendor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var vendor models.Vendor
	if err := h.db.First(&vendor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Vendor not found"})
		return
	}

	var invoices []models.PurchaseInvoice
	h.db.Where("vendor_id = ?", id).Order("invoice_date DESC").Limit(50).Find(&invoices)

	c.JSON(http.StatusOK, VendorDetailResponse{Vendor: vendor, Invoices: invoices})
}

type VendorDetailResponse struct {
	models.Vendor
	Invoices []models.PurchaseInvoice `json:"invoices"`
}

type VendorRequest struct {
	VendorName    string `json:"vendor_name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Website       string `json:"website"`
	Notes         string `json:"notes"`
}

// CreateVendor godoc
// @Summary Create a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor body VendorRequest true "Vendor details"
// @Success 201 {object} models.Vendor
// @Router /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	vendor := models.Vendor{
		VendorName:    req.VendorName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Website:       req.Website,
		Notes:         req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create vendor"})
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// UpdateVendor godoc
// @Summary Update a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param id path int true "Vendor ID"
// @Param vendor body VendorRequest true "Vendor details"
// @Success 200 {object} models.Vendor
// @Router /vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var vendor models.Vendor
	if err := h.db.First(&vendor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Vendor not found"})
		return
	}

	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	vendor.VendorName = req.VendorName
	vendor.ContactPerson = req.ContactPerson
	vendor.Email = req.Email
	vendor.Phone = req.Phone
	vendor.Address = req.Address
	vendor.Website = req.Website
	vendor.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update vendor"})
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor godoc
// @Summary Delete a vendor
// @Tags vendors
// @Param id path int true "Vendor ID"
// @Success 204
// @Router /vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var vendor models.Vendor
	if err := h.db.First(&vendor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Vendor not found"})
		return
	}

	var inUse int64
	h.db.Model(&models.PurchaseInvoice{}).Where("vendor_id = ?", id).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Vendor is referenced by invoices"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete vendor"})
		return
	}
	c.Status(http.StatusNoContent)
}
