package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/handler"
	"github.com/payhub/payhub-backend/internal/middleware"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/response"
	"github.com/payhub/payhub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Route      *handler.RouteHandler
	Invoice    *handler.InvoiceHandler
	Approval   *handler.ApprovalHandler
	Contractor *handler.ContractorHandler
	Employee   *handler.EmployeeHandler
	Role       *handler.RoleHandler
	Reference  *handler.ReferenceHandler
	Document   *handler.DocumentHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list; otherwise
	// allow all so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID middleware runs globally so every response carries metadata.
	router.Use(response.RequestIDMiddleware())

	// Uploaded documents are UUID-named, so long cache lifetimes are safe.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── Auth ──────────────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── WebSocket (token via query param) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/approvals", handlers.WS.ApprovalStream)
	}

	// ─── API (JWT + RBAC) ──────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Approval routes and the stage editor
		routes := api.Group("/routes")
		{
			routes.GET("", middleware.RequirePermission(model.PermissionRoutesRead), handlers.Route.List)
			routes.GET("/grouped", middleware.RequirePermission(model.PermissionRoutesRead), handlers.Route.ListGrouped)
			routes.GET("/:id", middleware.RequirePermission(model.PermissionRoutesRead), handlers.Route.Get)
			routes.POST("", middleware.RequirePermission(model.PermissionRoutesWrite), handlers.Route.Create)
			routes.PATCH("/:id", middleware.RequirePermission(model.PermissionRoutesWrite), handlers.Route.Update)
			routes.DELETE("/:id", middleware.RequirePermission(model.PermissionRoutesWrite), handlers.Route.Delete)
			routes.GET("/:id/stages", middleware.RequirePermission(model.PermissionRoutesRead), handlers.Route.GetStages)
			routes.PUT("/:id/stages", middleware.RequirePermission(model.PermissionRoutesWrite), handlers.Route.SaveStages)
		}

		// Invoices and their approval lifecycle
		invoices := api.Group("/invoices")
		{
			invoices.GET("", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Invoice.List)
			invoices.GET("/:id", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Invoice.Get)
			invoices.POST("", middleware.RequirePermission(model.PermissionInvoicesWrite), handlers.Invoice.Create)
			invoices.PATCH("/:id", middleware.RequirePermission(model.PermissionInvoicesWrite), handlers.Invoice.Update)
			invoices.DELETE("/:id", middleware.RequirePermission(model.PermissionInvoicesWrite), handlers.Invoice.Delete)
			invoices.POST("/:id/document",
				middleware.RequireAnyPermission(model.PermissionInvoicesWrite, model.PermissionDocumentsUpload),
				handlers.Invoice.UploadDocument,
			)

			invoices.POST("/:id/submit", middleware.RequirePermission(model.PermissionInvoicesSubmit), handlers.Approval.Submit)
			invoices.POST("/:id/approve", middleware.RequirePermission(model.PermissionApprovalsAct), handlers.Approval.Approve)
			invoices.POST("/:id/reject", middleware.RequirePermission(model.PermissionApprovalsAct), handlers.Approval.Reject)
			invoices.POST("/:id/recall", middleware.RequirePermission(model.PermissionInvoicesSubmit), handlers.Approval.Recall)
			invoices.GET("/:id/approval", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Approval.GetByInvoice)
			invoices.GET("/:id/audit", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Approval.AuditTrail)
		}

		api.GET("/approvals/pending", middleware.RequirePermission(model.PermissionApprovalsAct), handlers.Approval.Pending)

		// Contractors
		contractors := api.Group("/contractors")
		{
			contractors.GET("", middleware.RequirePermission(model.PermissionContractorsRead), handlers.Contractor.List)
			contractors.GET("/:id", middleware.RequirePermission(model.PermissionContractorsRead), handlers.Contractor.Get)
			contractors.POST("", middleware.RequirePermission(model.PermissionContractorsWrite), handlers.Contractor.Create)
			contractors.PUT("/:id", middleware.RequirePermission(model.PermissionContractorsWrite), handlers.Contractor.Update)
			contractors.DELETE("/:id", middleware.RequirePermission(model.PermissionContractorsWrite), handlers.Contractor.Delete)
		}

		// Employees
		employees := api.Group("/employees")
		{
			employees.GET("", middleware.RequirePermission(model.PermissionEmployeesRead), handlers.Employee.List)
			employees.GET("/:id", middleware.RequirePermission(model.PermissionEmployeesRead), handlers.Employee.Get)
			employees.POST("", middleware.RequirePermission(model.PermissionEmployeesWrite), handlers.Employee.Create)
			employees.PUT("/:id", middleware.RequirePermission(model.PermissionEmployeesWrite), handlers.Employee.Update)
			employees.DELETE("/:id", middleware.RequirePermission(model.PermissionEmployeesWrite), handlers.Employee.Delete)
		}

		// Roles
		roles := api.Group("/roles")
		{
			// The plain list backs the stage editor's role dropdown, so it only
			// needs route read access.
			roles.GET("", middleware.RequireAnyPermission(model.PermissionRoutesRead, model.PermissionReferencesRead), handlers.Role.List)
			roles.GET("/detailed", middleware.RequirePermission(model.PermissionReferencesRead), handlers.Role.ListWithPermissions)
			roles.GET("/permissions", middleware.RequirePermission(model.PermissionReferencesRead), handlers.Role.Permissions)
			roles.GET("/:id", middleware.RequirePermission(model.PermissionReferencesRead), handlers.Role.Get)
			roles.POST("", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Role.Create)
			roles.PUT("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Role.Update)
			roles.DELETE("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Role.Delete)
		}

		// Reference data: invoice types and payment statuses
		types := api.Group("/invoice-types")
		{
			types.GET("", middleware.RequireAnyPermission(model.PermissionRoutesRead, model.PermissionReferencesRead), handlers.Reference.ListInvoiceTypes)
			types.POST("", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.CreateInvoiceType)
			types.PUT("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.UpdateInvoiceType)
			types.DELETE("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.DeleteInvoiceType)
		}
		statuses := api.Group("/payment-statuses")
		{
			statuses.GET("", middleware.RequireAnyPermission(model.PermissionRoutesRead, model.PermissionReferencesRead), handlers.Reference.ListPaymentStatuses)
			statuses.POST("", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.CreatePaymentStatus)
			statuses.PUT("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.UpdatePaymentStatus)
			statuses.DELETE("/:id", middleware.RequirePermission(model.PermissionReferencesWrite), handlers.Reference.DeletePaymentStatus)
		}

		// Documents
		documents := api.Group("/documents")
		{
			documents.POST("", middleware.RequirePermission(model.PermissionDocumentsUpload), handlers.Document.Upload)
			documents.POST("/render", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Document.Render)
			documents.POST("/crop", middleware.RequirePermission(model.PermissionInvoicesRead), handlers.Document.Crop)
		}
	}

	return router
}
