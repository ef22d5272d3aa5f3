package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/analytics"
	"github.com/jhoicas/inventario-stock/internal/application/auth"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	Engine        *inventory.RegisterMovementUseCase
	MovementQuery *inventory.MovementQueryUseCase
	Reports       *analytics.ReportUseCase
	JWTSecret     string
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, alta solo admin
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequirePermission(entity.PermissionAll), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	canWrite := RequirePermission(entity.PermissionInventory)
	canRead := RequirePermission(entity.PermissionReports)

	// Movimientos del libro
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.MovementQuery, deps.Log)
	movs := protected.Group("/movimientos")
	movs.Post("/entrada", canWrite, inventoryHandler.Entry)
	movs.Post("/salida", canWrite, inventoryHandler.Exit)
	movs.Post("/ajuste", canWrite, inventoryHandler.Adjustment)
	movs.Get("/", canRead, inventoryHandler.List)
	movs.Get("/:id", canRead, inventoryHandler.GetByID)

	// Catálogo de productos
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products := protected.Group("/productos")
	products.Post("/", canWrite, productHandler.Create)
	products.Get("/", canRead, productHandler.List)
	products.Get("/codigo/:codigo", canRead, productHandler.GetByCode)
	products.Get("/:id", canRead, productHandler.GetByID)
	products.Put("/:id", canWrite, productHandler.Update)
	products.Delete("/:id", canWrite, productHandler.Deactivate)

	// Reportes de consistencia
	reportHandler := NewReportHandler(deps.Reports, deps.Log)
	reports := protected.Group("/reportes", canRead)
	reports.Get("/stock-bajo", reportHandler.LowStock)
	reports.Get("/stock-bajo/pdf", reportHandler.LowStockPDF)
	reports.Get("/valorizacion", reportHandler.Valuation)
	reports.Get("/actividad", reportHandler.Activity)
	reports.Get("/resumen", reportHandler.Summary)
}
