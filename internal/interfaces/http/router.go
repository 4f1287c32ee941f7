package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/internal/application/billing"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/application/transfers"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SedeUC      *usecase.SedeUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	StockUC     *inventory.StockUseCase
	MovementUC  *inventory.MovementUseCase
	PurchaseUC  *purchasing.UseCase
	SaleUC      *sales.UseCase
	TransferUC  *transfers.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReceiptUC   *billing.ReceiptUseCase
	Logger      *logger.Logger
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	admin := RequireRole(entity.RoleAdmin)
	bodega := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Sedes
	sedeHandler := NewSedeHandler(deps.SedeUC, log)
	sedes := api.Group("/sedes")
	sedes.Get("/", sedeHandler.List)
	sedes.Get("/:id", sedeHandler.GetByID)
	sedes.Post("/", admin, sedeHandler.Create)
	sedes.Put("/:id", admin, sedeHandler.Update)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", bodega, productHandler.Create)
	products.Put("/:id", bodega, productHandler.Update)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	suppliers := api.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", bodega, supplierHandler.Create)

	// Stock por sede
	stockHandler := NewStockHandler(deps.StockUC, log)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.ListBySede)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/products/:product_id", stockHandler.ListByProduct)
	stock.Get("/:product_id/:sede_id", stockHandler.Get)
	stock.Patch("/:product_id/:sede_id/prices", admin, stockHandler.UpdatePrices)

	// Libro de movimientos
	movementHandler := NewMovementHandler(deps.MovementUC, log)
	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/export", bodega, movementHandler.Export)
	movements.Get("/reconcile", bodega, movementHandler.Reconcile)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", bodega, movementHandler.Register)
	movements.Delete("/:id", admin, movementHandler.Delete)

	// Compras
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, log)
	purchases := api.Group("/purchases", bodega)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.UpdateDetails)
	purchases.Patch("/:id/state", purchaseHandler.ChangeState)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Traslados
	transferHandler := NewTransferHandler(deps.TransferUC, log)
	transfersGroup := api.Group("/transfers", bodega)
	transfersGroup.Post("/", transferHandler.Create)
	transfersGroup.Get("/", transferHandler.List)
	transfersGroup.Get("/:id", transferHandler.GetByID)
	transfersGroup.Patch("/:id/state", transferHandler.ChangeState)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Recibos PDF
	invoiceHandler := NewInvoiceHandler(deps.ReceiptUC, log)
	api.Get("/invoices/:kind/:id", invoiceHandler.Download)
}
