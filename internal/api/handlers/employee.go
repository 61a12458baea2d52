package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/table"
)

// EmployeeHandler handles employee CRUD requests
type EmployeeHandler struct {
	db *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

var employeeTable = table.Table{
	Columns: []table.Column{
		{Key: "name", Label: "Name", Accessor: "Name", Sortable: true, SortField: "employees.name",
			Link: func(row any) string { return idLink("/employees/", row) }},
		{Key: "employee_id", Label: "Badge", Accessor: "EmployeeID", Sortable: true, SortField: "employee_id"},
		{Key: "department", Label: "Department", Accessor: "Department.Name"},
		{Key: "company", Label: "Company", Accessor: "Company.Name"},
		{Key: "status", Label: "Status", Accessor: func(row any) any {
			return row.(*models.Employee).StatusDisplay()
		}, Badge: true, BadgeMap: map[string]string{"Active": "badge-success", "Inactive": "badge-muted"}},
		{Key: "email", Label: "Email", Accessor: "Email", Hidden: true},
		{Key: "phone", Label: "Phone", Accessor: "Phone", Hidden: true},
	},
	SearchFields: []string{"employees.name", "employee_id", "email", "phone"},
	Filters: []table.Filter{
		{Param: "company_id", Column: "employees.company_id"},
		{Param: "department_id", Column: "department_id"},
		{Param: "status", Column: "status"},
	},
	DefaultSort: "name",
}

// ListEmployees godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {object} table.Result
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var employees []models.Employee
	q := h.db.Model(&models.Employee{}).Preload("Company").Preload("Department").Preload("Location")
	res, err := employeeTable.Run(q, employeeTable.BindParams(c), &employees)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch employees"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetEmployee godoc
// @Summary Get employee by ID, including currently assigned assets
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} EmployeeDetailResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var employee models.Employee
	if err := h.db.Preload("Company").Preload("Department").Preload("Location").
		First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Employee not found"})
		return
	}

	var assets []models.Asset
	h.db.Preload("AssetModel").Where("assigned_to_id = ?", id).Find(&assets)

	c.JSON(http.StatusOK, EmployeeDetailResponse{
		Employee:       employee,
		AssignedAssets: assets,
	})
}

type EmployeeDetailResponse struct {
	models.Employee
	AssignedAssets []models.Asset `json:"assigned_assets"`
}

type EmployeeRequest struct {
	EmployeeID   *string               `json:"employee_id"`
	Name         string                `json:"name" binding:"required"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	Extension    string                `json:"extension"`
	CompanyID    *uint                 `json:"company_id"`
	DepartmentID *uint                 `json:"department_id"`
	LocationID   *uint                 `json:"location_id"`
	Position     string                `json:"position"`
	Status       models.EmployeeStatus `json:"status"`
}

// CreateEmployee godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body EmployeeRequest true "Employee details"
// @Success 201 {object} models.Employee
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.EmployeeStatusActive
	}

	employee := models.Employee{
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Extension:    req.Extension,
		CompanyID:    req.CompanyID,
		DepartmentID: req.DepartmentID,
		LocationID:   req.LocationID,
		Position:     req.Position,
		Status:       status,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Employee with this badge number already exists"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee godoc
// @Summary Update an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param employee body EmployeeRequest true "Employee details"
// @Success 200 {object} models.Employee
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Employee not found"})
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	employee.EmployeeID = req.EmployeeID
	employee.Name = req.Name
	employee.Email = req.Email
	employee.Phone = req.Phone
	employee.Extension = req.Extension
	employee.CompanyID = req.CompanyID
	employee.DepartmentID = req.DepartmentID
	employee.LocationID = req.LocationID
	employee.Position = req.Position
	if req.Status != "" {
		employee.Status = req.Status
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&employee).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Employee with this badge number already exists"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee godoc
// @Summary Delete an employee
// @Tags employees
// @Param id path int true "Employee ID"
// @Success 204
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Employee not found"})
		return
	}

	var assigned int64
	h.db.Model(&models.Asset{}).Where("assigned_to_id = ?", id).Count(&assigned)
	if assigned > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Employee still has assets assigned"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete employee"})
		return
	}
	c.Status(http.StatusNoContent)
}
