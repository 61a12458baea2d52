package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
)

// DashboardHandler aggregates the numbers shown on the landing page
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// DashboardResponse is the dashboard payload
type DashboardResponse struct {
	AssetsByStatus      map[string]int64             `json:"assets_by_status"`
	TotalAssets         int64                        `json:"total_assets"`
	TotalComponents     int64                        `json:"total_components"`
	TotalEmployees      int64                        `json:"total_employees"`
	PendingRequisitions int64                        `json:"pending_requisitions"`
	UnpaidInvoices      int64                        `json:"unpaid_invoices"`
	RestockNeeded       []models.SparePartsInventory `json:"restock_needed"`
	RecentActivity      []models.ActivityLog         `json:"recent_activity"`
}

// GetDashboard godoc
// @Summary Get dashboard statistics
// @Description Entity counts, assets grouped by status, spare parts below their reorder threshold and the latest activity.
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	resp := DashboardResponse{AssetsByStatus: map[string]int64{}}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := h.db.Model(&models.Asset{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	for _, row := range byStatus {
		resp.AssetsByStatus[row.Status] = row.Count
		resp.TotalAssets += row.Count
	}

	h.db.Model(&models.Component{}).Count(&resp.TotalComponents)
	h.db.Model(&models.Employee{}).Count(&resp.TotalEmployees)
	h.db.Model(&models.Requisition{}).
		Where("status = ?", models.RequisitionStatusPending).
		Count(&resp.PendingRequisitions)
	h.db.Model(&models.PurchaseInvoice{}).
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Count(&resp.UnpaidInvoices)

	h.db.Preload("ComponentType").
		Where("quantity_available < quantity_minimum").
		Order("quantity_available").
		Limit(20).
		Find(&resp.RestockNeeded)

	h.db.Preload("Actor").
		Order("timestamp DESC, id DESC").
		Limit(10).
		Find(&resp.RecentActivity)

	c.JSON(http.StatusOK, resp)
}
