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

// RequisitionHandler handles requisition requests
type RequisitionHandler struct {
	db           *gorm.DB
	requisitions *service.RequisitionService
}

func NewRequisitionHandler(db *gorm.DB) *RequisitionHandler {
	return &RequisitionHandler{db: db, requisitions: service.NewRequisitionService(db)}
}

var requisitionTable = table.Table{
	Columns: []table.Column{
		{Key: "requisition_number", Label: "Number", Accessor: "RequisitionNumber", Sortable: true, SortField: "requisition_number",
			Link: func(row any) string { return idLink("/requisitions/", row) }},
		{Key: "company", Label: "Company", Accessor: "Company.Name"},
		{Key: "department", Label: "Department", Accessor: "Department.Name"},
		{Key: "requested_by", Label: "Requested By", Accessor: "RequestedBy.Name"},
		{Key: "priority", Label: "Priority", Accessor: "Priority", Sortable: true, SortField: "priority",
			Badge: true, BadgeMap: map[string]string{
				"low": "badge-muted", "normal": "badge-info", "high": "badge-warning", "urgent": "badge-danger",
			}},
		{Key: "status", Label: "Status", Accessor: func(row any) any {
			return row.(*models.Requisition).StatusDisplay()
		}, Sortable: true, SortField: "requisitions.status", Badge: true, BadgeMap: map[string]string{
			"Pending": "badge-warning", "Fulfilled": "badge-success", "Cancelled": "badge-muted",
		}},
		{Key: "requisition_date", Label: "Date", Accessor: "RequisitionDate", Sortable: true, SortField: "requisition_date"},
	},
	SearchFields: []string{"requisition_number", "requisitions.notes"},
	Filters: []table.Filter{
		{Param: "status", Column: "requisitions.status"},
		{Param: "priority", Column: "priority"},
		{Param: "company_id", Column: "requisitions.company_id"},
		{Param: "department_id", Column: "requisitions.department_id"},
	},
	DefaultSort: "-requisition_date",
}

// ListRequisitions godoc
// @Summary List requisitions
// @Tags requisitions
// @Produce json
// @Success 200 {object} table.Result
// @Router /requisitions [get]
func (h *RequisitionHandler) ListRequisitions(c *gin.Context) {
	var requisitions []models.Requisition
	q := h.db.Model(&models.Requisition{}).
		Preload("Company").
		Preload("Department").
		Preload("RequestedBy")
	res, err := requisitionTable.Run(q, requisitionTable.BindParams(c), &requisitions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch requisitions"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetRequisition godoc
// @Summary Get requisition by ID with its items
// @Tags requisitions
// @Produce json
// @Param id path int true "Requisition ID"
// @Success 200 {object} models.Requisition
// @Router /requisitions/{id} [get]
func (h *RequisitionHandler) GetRequisition(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	requisition, err := h.requisitions.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requisition)
}

type RequisitionRequest struct {
	RequisitionNumber string                     `json:"requisition_number"`
	CompanyID         uint                       `json:"company_id" binding:"required"`
	DepartmentID      uint                       `json:"department_id" binding:"required"`
	RequestedByID     uint                       `json:"requested_by_id" binding:"required"`
	ApprovedByID      *uint                      `json:"approved_by_id"`
	RequisitionDate   *time.Time                 `json:"requisition_date"`
	Specifications    map[string]any             `json:"specifications"`
	Priority          models.RequisitionPriority `json:"priority"`
	Notes             string                     `json:"notes"`
}

// CreateRequisition godoc
// @Summary Create a requisition
// @Tags requisitions
// @Accept json
// @Produce json
// @Param requisition body RequisitionRequest true "Requisition details"
// @Success 201 {object} models.Requisition
// @Router /requisitions [post]
func (h *RequisitionHandler) CreateRequisition(c *gin.Context) {
	var req RequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	when := time.Now().UTC()
	if req.RequisitionDate != nil {
		when = *req.RequisitionDate
	}

	requisition, err := h.requisitions.Create(c.Request.Context(), service.CreateRequisitionRequest{
		RequisitionNumber: req.RequisitionNumber,
		CompanyID:         req.CompanyID,
		DepartmentID:      req.DepartmentID,
		RequestedByID:     req.RequestedByID,
		ApprovedByID:      req.ApprovedByID,
		RequisitionDate:   when,
		Specifications:    req.Specifications,
		Priority:          req.Priority,
		Notes:             req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, requisition)
}

type RequisitionItemRequest struct {
	AssetID     *uint  `json:"asset_id"`
	ComponentID *uint  `json:"component_id"`
	Notes       string `json:"notes"`
}

// AddRequisitionItem godoc
// @Summary Attach an asset or component to a requisition
// @Tags requisitions
// @Accept json
// @Produce json
// @Param id path int true "Requisition ID"
// @Param item body RequisitionItemRequest true "Exactly one of asset_id or component_id"
// @Success 201 {object} models.RequisitionItem
// @Failure 409 {object} ErrorResponse
// @Router /requisitions/{id}/items [post]
func (h *RequisitionHandler) AddRequisitionItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RequisitionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	item, err := h.requisitions.AddItem(c.Request.Context(), id, service.AddRequisitionItemRequest{
		AssetID:     req.AssetID,
		ComponentID: req.ComponentID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// RemoveRequisitionItem godoc
// @Summary Remove an item from a requisition
// @Tags requisitions
// @Param id path int true "Requisition ID"
// @Param itemID path int true "Item ID"
// @Success 204
// @Router /requisitions/{id}/items/{itemID} [delete]
func (h *RequisitionHandler) RemoveRequisitionItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.requisitions.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FulfillRequisition godoc
// @Summary Mark a requisition as fulfilled
// @Description Requires at least one attached item.
// @Tags requisitions
// @Produce json
// @Param id path int true "Requisition ID"
// @Success 200 {object} models.Requisition
// @Failure 409 {object} ErrorResponse
// @Router /requisitions/{id}/fulfill [post]
func (h *RequisitionHandler) FulfillRequisition(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	requisition, err := h.requisitions.Fulfill(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requisition)
}

type RequisitionCancelRequest struct {
	Reason string `json:"reason"`
}

// CancelRequisition godoc
// @Summary Cancel a requisition
// @Tags requisitions
// @Accept json
// @Produce json
// @Param id path int true "Requisition ID"
// @Param cancellation body RequisitionCancelRequest true "Cancellation reason"
// @Success 200 {object} models.Requisition
// @Router /requisitions/{id}/cancel [post]
func (h *RequisitionHandler) CancelRequisition(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RequisitionCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	requisition, err := h.requisitions.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requisition)
}
