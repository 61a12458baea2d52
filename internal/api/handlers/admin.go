package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/auth"
	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/rbac"
)

// AdminHandler handles user management (admin only)
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type UserWithAdminStatus struct {
	models.User
	IsAdmin bool `json:"is_admin"`
}

// ListUsers godoc
// @Summary List all users (admin only)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} UserWithAdminStatus
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch users"})
		return
	}

	// One Casbin call for all admin flags
	adminUserIDs, err := rbac.GetAllAdminUserIDs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check admin status"})
		return
	}

	usersWithStatus := make([]UserWithAdminStatus, len(users))
	for i, user := range users {
		usersWithStatus[i] = UserWithAdminStatus{
			User:    user,
			IsAdmin: adminUserIDs[user.ID],
		}
	}

	c.JSON(http.StatusOK, usersWithStatus)
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
	// Link the account to an existing employee record
	EmployeeID *uint `json:"employee_id"`
}

// CreateUser godoc
// @Summary Create a new user (admin only)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User details"
// @Success 201 {object} models.User
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Username or email already taken"})
		return
	}

	if req.IsAdmin {
		if err := rbac.MakeAdmin(user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to grant admin permissions"})
			return
		}
	}

	if req.EmployeeID != nil {
		h.db.Model(&models.Employee{}).
			Where("id = ?", *req.EmployeeID).
			Update("user_id", user.ID)
	}

	activity.Record(c.Request.Context(), h.db, activity.Entry{
		EventType: models.EventUser,
		Action:    models.ActionCreated,
		Message:   "User " + user.Username + " created",
	})

	c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get user by ID (admin only)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User UUID"
// @Success 200 {object} UserWithAdminStatus
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	isAdmin, _ := rbac.IsAdmin(user.ID)

	c.JSON(http.StatusOK, UserWithAdminStatus{
		User:    user,
		IsAdmin: isAdmin,
	})
}

// ToggleAdmin godoc
// @Summary Toggle admin status for a user
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User UUID"
// @Success 200 {object} UserWithAdminStatus
// @Router /admin/users/{id}/toggle-admin [post]
func (h *AdminHandler) ToggleAdmin(c *gin.Context) {
	adminUser := c.MustGet(auth.UserContextKey).(*models.User)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if userID == adminUser.ID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot change your own admin status"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	isAdmin, _ := rbac.IsAdmin(user.ID)

	if isAdmin {
		if err := rbac.RevokeAdmin(user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to revoke admin"})
			return
		}
	} else {
		if err := rbac.MakeAdmin(user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to make admin"})
			return
		}
	}

	activity.Record(c.Request.Context(), h.db, activity.Entry{
		EventType: models.EventUser,
		Action:    models.ActionUpdated,
		Message:   "Admin status toggled for " + user.Username,
	})

	c.JSON(http.StatusOK, UserWithAdminStatus{
		User:    user,
		IsAdmin: !isAdmin,
	})
}

type SetUserActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetUserActive godoc
// @Summary Activate or deactivate a user account
// @Description Deactivated users keep their history but can no longer log in.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User UUID"
// @Param state body SetUserActiveRequest true "Target state"
// @Success 200 {object} models.User
// @Router /admin/users/{id}/active [put]
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	adminUser := c.MustGet(auth.UserContextKey).(*models.User)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if userID == adminUser.ID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot deactivate yourself"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user.IsActive = req.IsActive
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update user"})
		return
	}

	action := models.ActionDeactivated
	if req.IsActive {
		action = models.ActionActivated
	}
	activity.Record(c.Request.Context(), h.db, activity.Entry{
		EventType: models.EventUser,
		Action:    action,
		Message:   "User " + user.Username + " " + string(action),
	})

	c.JSON(http.StatusOK, user)
}
