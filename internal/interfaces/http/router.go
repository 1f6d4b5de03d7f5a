package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/auth"
	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/conversion"
	"github.com/jhoicas/sippa-api/internal/application/orders"
	"github.com/jhoicas/sippa-api/internal/application/quotation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Gate         *auth.Gate
	Probe        auth.Connectivity
	Roles        *catalog.RoleResolver
	CatalogUC    *catalog.CatalogUseCase
	QuotationUC  *quotation.QuotationUseCase
	PDFUC        *quotation.PDFUseCase
	ConversionUC *conversion.ConversionUseCase
	ClientUC     *orders.ClientUseCase
	OrderUC      *orders.OrderUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.Probe).Health)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Gate)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/cached", authHandler.Cached)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)
	adminOnly := RequireRole(deps.Roles, catalog.RoleAdmin)

	// Catálogo: lectura para todos, escritura solo administrador
	ingredientHandler := NewIngredientHandler(deps.CatalogUC)
	ingredients := protected.Group("/ingredients")
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Post("/", adminOnly, ingredientHandler.Create)
	ingredients.Put("/:id", adminOnly, ingredientHandler.Update)
	ingredients.Patch("/:id/deleted", adminOnly, ingredientHandler.SetDeleted)
	protected.Get("/units", ingredientHandler.ListUnits)

	// Cotizaciones
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.PDFUC, deps.ConversionUC)
	quotations := protected.Group("/quotations")
	quotations.Post("/preview", quotationHandler.Preview)
	quotations.Post("/convert", quotationHandler.Convert)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id/pdf", quotationHandler.DownloadPDF)
	quotations.Get("/:id", quotationHandler.GetByID)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)

	// Agenda de pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/export", orderHandler.Export)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Schedule)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)
}
