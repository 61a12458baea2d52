package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/castellan-dev/castellan/internal/api/handlers"
	"github.com/castellan-dev/castellan/internal/api/middleware"
	"github.com/castellan-dev/castellan/internal/auth"
	"github.com/castellan-dev/castellan/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	authenticator := auth.NewBasicAuthenticator(db, cfg.Auth.JWTSecret)

	infoHandler := handlers.NewInfoHandler(db)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", handlers.HealthCheck)
		public.POST("/auth/login", handlers.Login(authenticator))
	}

	companyHandler := handlers.NewCompanyHandler(db)
	locationHandler := handlers.NewLocationHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(db)
	employeeHandler := handlers.NewEmployeeHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	assetModelHandler := handlers.NewAssetModelHandler(db)
	componentTypeHandler := handlers.NewComponentTypeHandler(db)
	vendorHandler := handlers.NewVendorHandler(db)
	assetHandler := handlers.NewAssetHandler(db)
	componentHandler := handlers.NewComponentHandler(db)
	sparePartsHandler := handlers.NewSparePartsHandler(db)
	requisitionHandler := handlers.NewRequisitionHandler(db)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	activityHandler := handlers.NewActivityHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	// Protected routes (require authentication)
	protected := router.Group("/api/v1")
	protected.Use(authenticator.Middleware())
	{
		protected.GET("/auth/me", handlers.GetCurrentUser(authenticator))
		protected.GET("/info", infoHandler.GetInfo)
		protected.GET("/dashboard", dashboardHandler.GetDashboard)
		protected.GET("/activity", activityHandler.ListActivity)

		protected.GET("/companies", companyHandler.ListCompanies)
		protected.POST("/companies", companyHandler.CreateCompany)
		protected.GET("/companies/:id", companyHandler.GetCompany)
		protected.PUT("/companies/:id", companyHandler.UpdateCompany)
		protected.DELETE("/companies/:id", companyHandler.DeleteCompany)

		protected.GET("/locations", locationHandler.ListLocations)
		protected.POST("/locations", locationHandler.CreateLocation)
		protected.GET("/locations/:id", locationHandler.GetLocation)
		protected.PUT("/locations/:id", locationHandler.UpdateLocation)
		protected.DELETE("/locations/:id", locationHandler.DeleteLocation)

		protected.GET("/departments", departmentHandler.ListDepartments)
		protected.POST("/departments", departmentHandler.CreateDepartment)
		protected.GET("/departments/:id", departmentHandler.GetDepartment)
		protected.PUT("/departments/:id", departmentHandler.UpdateDepartment)
		protected.DELETE("/departments/:id", departmentHandler.DeleteDepartment)

		protected.GET("/employees", employeeHandler.ListEmployees)
		protected.POST("/employees", employeeHandler.CreateEmployee)
		protected.GET("/employees/:id", employeeHandler.GetEmployee)
		protected.PUT("/employees/:id", employeeHandler.UpdateEmployee)
		protected.DELETE("/employees/:id", employeeHandler.DeleteEmployee)

		protected.GET("/categories", categoryHandler.ListCategories)
		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.GET("/categories/:id", categoryHandler.GetCategory)
		protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
		protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		protected.GET("/asset-models", assetModelHandler.ListAssetModels)
		protected.POST("/asset-models", assetModelHandler.CreateAssetModel)
		protected.GET("/asset-models/:id", assetModelHandler.GetAssetModel)
		protected.PUT("/asset-models/:id", assetModelHandler.UpdateAssetModel)
		protected.DELETE("/asset-models/:id", assetModelHandler.DeleteAssetModel)

		protected.GET("/component-types", componentTypeHandler.ListComponentTypes)
		protected.POST("/component-types", componentTypeHandler.CreateComponentType)
		protected.GET("/component-types/:id", componentTypeHandler.GetComponentType)
		protected.PUT("/component-types/:id", componentTypeHandler.UpdateComponentType)
		protected.DELETE("/component-types/:id", componentTypeHandler.DeleteComponentType)

		protected.GET("/vendors", vendorHandler.ListVendors)
		protected.POST("/vendors", vendorHandler.CreateVendor)
		protected.GET("/vendors/:id", vendorHandler.GetVendor)
		protected.PUT("/vendors/:id", vendorHandler.UpdateVendor)
		protected.DELETE("/vendors/:id", vendorHandler.DeleteVendor)

		protected.GET("/assets", assetHandler.ListAssets)
		protected.POST("/assets", assetHandler.CreateAsset)
		protected.POST("/assets/bulk-delete", assetHandler.BulkDeleteAssets)
		protected.POST("/assets/bulk-status", assetHandler.BulkStatusAssets)
		protected.GET("/assets/:id", assetHandler.GetAsset)
		protected.PATCH("/assets/:id", assetHandler.UpdateAsset)
		protected.DELETE("/assets/:id", assetHandler.DeleteAsset)
		protected.POST("/assets/:id/duplicate", assetHandler.DuplicateAsset)
		protected.POST("/assets/:id/assign", assetHandler.AssignAsset)
		protected.POST("/assets/:id/unassign", assetHandler.UnassignAsset)
		protected.POST("/assets/:id/maintenance", assetHandler.AddMaintenance)

		protected.GET("/components", componentHandler.ListComponents)
		protected.POST("/components", componentHandler.CreateComponent)
		protected.GET("/components/:id", componentHandler.GetComponent)
		protected.DELETE("/components/:id", componentHandler.DeleteComponent)
		protected.POST("/components/:id/install", componentHandler.InstallComponent)
		protected.POST("/components/:id/remove", componentHandler.RemoveComponent)

		protected.GET("/spare-parts", sparePartsHandler.ListSpareParts)
		protected.PATCH("/spare-parts/:id", sparePartsHandler.UpdateSparePart)
		protected.POST("/spare-parts/sync", sparePartsHandler.SyncSpareParts)

		protected.GET("/requisitions", requisitionHandler.ListRequisitions)
		protected.POST("/requisitions", requisitionHandler.CreateRequisition)
		protected.GET("/requisitions/:id", requisitionHandler.GetRequisition)
		protected.POST("/requisitions/:id/items", requisitionHandler.AddRequisitionItem)
		protected.DELETE("/requisitions/:id/items/:itemID", requisitionHandler.RemoveRequisitionItem)
		protected.POST("/requisitions/:id/fulfill", requisitionHandler.FulfillRequisition)
		protected.POST("/requisitions/:id/cancel", requisitionHandler.CancelRequisition)

		protected.GET("/invoices", invoiceHandler.ListInvoices)
		protected.POST("/invoices", invoiceHandler.CreateInvoice)
		protected.GET("/invoices/:id", invoiceHandler.GetInvoice)
		protected.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)
		protected.POST("/invoices/:id/lines", invoiceHandler.AddInvoiceLineItem)
		protected.POST("/invoices/:id/lines/:lineID/receive", invoiceHandler.ReceiveInvoiceLineItem)
		protected.POST("/invoices/:id/payment", invoiceHandler.MarkInvoicePaid)

		// Admin endpoints
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.POST("/users/:id/toggle-admin", adminHandler.ToggleAdmin)
			admin.PUT("/users/:id/active", adminHandler.SetUserActive)
		}
	}

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
