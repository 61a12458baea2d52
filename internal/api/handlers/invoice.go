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

// InvoiceHandler handles purchase invoice requests
type InvoiceHandler struct {
	db       *gorm.DB
	invoices *service.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{db: db, invoices: service.NewInvoiceService(db)}
}

var invoiceTable = table.Table{
	Columns: []table.Column{
		{Key: "invoice_number", Label: "Invoice", Accessor: "InvoiceNumber", Sortable: true, SortField: "invoice_number",
			Link: func(row any) string { return idLink("/invoices/", row) }},
		{Key: "vendor", Label: "Vendor", Accessor: "Vendor.VendorName"},
		{Key: "company", Label: "Company", Accessor: "Company.Name", Hidden: true},
		{Key: "invoice_date", Label: "Date", Accessor: "InvoiceDate", Sortable: true, SortField: "invoice_date"},
		{Key: "total_amount", Label: "Total", Accessor: "TotalAmount", Sortable: true, SortField: "total_amount", Align: "right"},
		{Key: "payment_status", Label: "Payment", Accessor: func(row any) any {
			return row.(*models.PurchaseInvoice).PaymentStatusDisplay()
		}, Sortable: true, SortField: "payment_status", Badge: true, BadgeMap: map[string]string{
			"Unpaid": "badge-danger", "Partially Paid": "badge-warning", "Paid": "badge-success",
		}},
		{Key: "received_date", Label: "Received", Accessor: "ReceivedDate", Hidden: true},
	},
	SearchFields: []string{"invoice_number", "purchase_invoices.notes"},
	Filters: []table.Filter{
		{Param: "payment_status", Column: "payment_status"},
		{Param: "vendor_id", Column: "vendor_id"},
		{Param: "company_id", Column: "purchase_invoices.company_id"},
	},
	DefaultSort: "-invoice_date",
}

// ListInvoices godoc
// @Summary List purchase invoices
// @Tags invoices
// @Produce json
// @Success 200 {object} table.Result
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var invoices []models.PurchaseInvoice
	q := h.db.Model(&models.PurchaseInvoice{}).
		Preload("Vendor").
		Preload("Company")
	res, err := invoiceTable.Run(q, invoiceTable.BindParams(c), &invoices)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetInvoice godoc
// @Summary Get invoice by ID with its line items
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} models.PurchaseInvoice
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type InvoiceLineItemRequest struct {
	CompanyID       uint                `json:"company_id" binding:"required"`
	DepartmentID    uint                `json:"department_id" binding:"required"`
	ItemType        models.LineItemType `json:"item_type" binding:"required"`
	Description     string              `json:"description" binding:"required"`
	Quantity        int                 `json:"quantity"`
	ItemCost        float64             `json:"item_cost"`
	AssetModelID    *uint               `json:"asset_model_id"`
	ComponentTypeID *uint               `json:"component_type_id"`
	Notes           string              `json:"notes"`
}

type InvoiceRequest struct {
	InvoiceNumber string                   `json:"invoice_number" binding:"required"`
	CompanyID     uint                     `json:"company_id" binding:"required"`
	VendorID      uint                     `json:"vendor_id" binding:"required"`
	InvoiceDate   *time.Time               `json:"invoice_date"`
	TotalAmount   float64                  `json:"total_amount"`
	Notes         string                   `json:"notes"`
	LineItems     []InvoiceLineItemRequest `json:"line_items"`
}

// CreateInvoice godoc
// @Summary Create a purchase invoice with line items
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body InvoiceRequest true "Invoice details"
// @Success 201 {object} models.PurchaseInvoice
// @Failure 409 {object} ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	when := time.Now().UTC()
	if req.InvoiceDate != nil {
		when = *req.InvoiceDate
	}

	lines := make([]service.CreateLineItemRequest, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lines = append(lines, service.CreateLineItemRequest{
			CompanyID:       li.CompanyID,
			DepartmentID:    li.DepartmentID,
			ItemType:        li.ItemType,
			Description:     li.Description,
			Quantity:        li.Quantity,
			ItemCost:        li.ItemCost,
			AssetModelID:    li.AssetModelID,
			ComponentTypeID: li.ComponentTypeID,
			Notes:           li.Notes,
		})
	}

	invoice, err := h.invoices.Create(c.Request.Context(), service.CreateInvoiceRequest{
		InvoiceNumber: req.InvoiceNumber,
		CompanyID:     req.CompanyID,
		VendorID:      req.VendorID,
		InvoiceDate:   when,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		LineItems:     lines,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// AddInvoiceLineItem godoc
// @Summary Add a line item to an invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param line body InvoiceLineItemRequest true "Line item details"
// @Success 201 {object} models.InvoiceLineItem
// @Router /invoices/{id}/lines [post]
func (h *InvoiceHandler) AddInvoiceLineItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req InvoiceLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	line, err := h.invoices.AddLineItem(c.Request.Context(), id, service.CreateLineItemRequest{
		CompanyID:       req.CompanyID,
		DepartmentID:    req.DepartmentID,
		ItemType:        req.ItemType,
		Description:     req.Description,
		Quantity:        req.Quantity,
		ItemCost:        req.ItemCost,
		AssetModelID:    req.AssetModelID,
		ComponentTypeID: req.ComponentTypeID,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

type ReceiveLineRequest struct {
	Quantity      int      `json:"quantity"`
	ReceivedByID  *uint    `json:"received_by_id"`
	SerialNumbers []string `json:"serial_numbers"`
}

// ReceiveInvoiceLineItem godoc
// @Summary Receive items from an invoice line
// @Description Creates pending assets for asset lines, or spare components for component lines, with generated tags.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param lineID path int true "Line item ID"
// @Param receipt body ReceiveLineRequest true "Receipt details"
// @Success 201 {array} any
// @Failure 409 {object} ErrorResponse
// @Router /invoices/{id}/lines/{lineID}/receive [post]
func (h *InvoiceHandler) ReceiveInvoiceLineItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := uintParam(c, "lineID")
	if !ok {
		return
	}

	var req ReceiveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.invoices.ReceiveLineItem(c.Request.Context(), id, lineID, service.ReceiveLineItemRequest{
		Quantity:      req.Quantity,
		ReceivedByID:  req.ReceivedByID,
		SerialNumbers: req.SerialNumbers,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type InvoicePaymentRequest struct {
	PaymentStatus    models.PaymentStatus `json:"payment_status" binding:"required"`
	PaymentDate      *time.Time           `json:"payment_date"`
	PaymentMethod    string               `json:"payment_method"`
	PaymentReference string               `json:"payment_reference"`
}

// MarkInvoicePaid godoc
// @Summary Record a payment against an invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param payment body InvoicePaymentRequest true "Payment details"
// @Success 200 {object} models.PurchaseInvoice
// @Router /invoices/{id}/payment [post]
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req InvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invoice, err := h.invoices.MarkPaid(c.Request.Context(), id, service.MarkInvoicePaidRequest{
		PaymentStatus:    req.PaymentStatus,
		PaymentDate:      req.PaymentDate,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Tags invoices
// @Param id path int true "Invoice ID"
// @Success 204
// @Failure 409 {object} ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
