package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/analytics"
	"github.com/jhoicas/Clicheria-api/internal/application/auth"
	"github.com/jhoicas/Clicheria-api/internal/application/billing"
	"github.com/jhoicas/Clicheria-api/internal/application/catalog"
	"github.com/jhoicas/Clicheria-api/internal/application/notification"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CustomerUC     *billing.CustomerUseCase
	InvoiceUC      *billing.InvoiceUseCase
	CatalogUC      *catalog.UseCase
	OrderUC        *order.UseCase
	WizardUC       *wizard.UseCase
	NotificationUC *notification.UseCase
	DashboardUC    *analytics.DashboardUseCase
	JWTSecret      string
	MaxUploadBytes int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/printers", catalogHandler.CreatePrinter)
	protected.Get("/printers", catalogHandler.ListPrinters)
	protected.Post("/transports", catalogHandler.CreateTransport)
	protected.Get("/transports", catalogHandler.ListTransports)
	protected.Get("/operators", catalogHandler.ListOperators)

	// Asistente
	wizardHandler := NewWizardHandler(deps.WizardUC, deps.MaxUploadBytes)
	wz := protected.Group("/wizard")
	wz.Get("/options", wizardHandler.Options)
	wz.Post("/drafts", wizardHandler.Start)
	wz.Get("/drafts/:id", wizardHandler.Get)
	wz.Patch("/drafts/:id", wizardHandler.Patch)
	wz.Post("/drafts/:id/next", wizardHandler.Next)
	wz.Post("/drafts/:id/back", wizardHandler.Back)
	wz.Post("/drafts/:id/submit", wizardHandler.Submit)
	wz.Delete("/drafts/:id", wizardHandler.Discard)

	// Órdenes de servicio (export antes de /:id)
	orderHandler := NewServiceOrderHandler(deps.OrderUC, deps.MaxUploadBytes)
	orders := protected.Group("/service-orders")
	orders.Get("/export.xlsx", orderHandler.Export)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Post("/:id/reuse", orderHandler.Reuse)
	orders.Patch("/:id/status", orderHandler.ChangeStatus)
	orders.Get("/:id/ticket.pdf", orderHandler.Ticket)

	// Facturación
	invoices := protected.Group("/invoices", RequireRole(entity.RoleAdmin, entity.RoleFinanciero))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)

	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	protected.Get("/notifications", notificationHandler.List)
	protected.Patch("/notifications/:id/read", notificationHandler.MarkRead)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)
}
