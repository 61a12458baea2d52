package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
)

// ActivityHandler serves the activity feed
type ActivityHandler struct {
	db *gorm.DB
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// ActivityFeedResponse is one page of the activity feed
type ActivityFeedResponse struct {
	Entries    []models.ActivityLog `json:"entries"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
}

// ListActivity godoc
// @Summary List activity feed entries, newest first
// @Tags activity
// @Produce json
// @Param event_type query string false "Filter by entity kind, e.g. asset"
// @Param action query string false "Filter by action, e.g. status_changed"
// @Param entity_type query string false "Filter by entity type together with entity_id"
// @Param entity_id query int false "Filter by entity ID"
// @Param actor_id query string false "Filter by acting user"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size, max 200"
// @Success 200 {object} ActivityFeedResponse
// @Router /activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	q := h.db.Model(&models.ActivityLog{}).Preload("Actor")

	if eventType := c.Query("event_type"); eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		q = q.Where("entity_type = ?", entityType)
		if entityID := c.Query("entity_id"); entityID != "" {
			q = q.Where("entity_id = ?", entityID)
		}
	}
	if actorID := c.Query("actor_id"); actorID != "" {
		q = q.Where("actor_id = ?", actorID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch activity"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size < 1 {
		size = 50
	}
	if size > 200 {
		size = 200
	}

	var entries []models.ActivityLog
	err := q.Order("timestamp DESC, id DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch activity"})
		return
	}

	c.JSON(http.StatusOK, ActivityFeedResponse{
		Entries:    entries,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
	})
}
