package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales       *inventory.SaleUseCase
	Reversals   *inventory.ReversalProcessor
	Adjustments *inventory.AdjustmentUseCase
	Defects     *inventory.DefectUseCase
	Queries     *inventory.QueryFacade
	Receipts    *inventory.ReceiptUseCase
	Products    *usecase.ProductUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; la cuenta sale del token.
func Router(app *fiber.App, deps RouterDeps) {
	er := errorResponder{log: deps.Log}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleSeller, jwt.RoleWarehouse)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)
	stockKeepers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo
	productHandler := NewProductHandler(deps.Products, er)
	products := api.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales, deps.Reversals, deps.Receipts, er)
	sales := api.Group("/sales")
	sales.Post("/", sellers, saleHandler.Register)
	sales.Get("/", anyRole, saleHandler.List)
	sales.Get("/:id", anyRole, saleHandler.Get)
	sales.Get("/:id/receipt", anyRole, saleHandler.Receipt)
	sales.Post("/:id/received", sellers, saleHandler.MarkReceived)
	sales.Post("/:id/reversal", adminOnly, saleHandler.Reverse)

	// Ajustes manuales
	adjustmentHandler := NewAdjustmentHandler(deps.Adjustments, er)
	api.Post("/adjustments", stockKeepers, adjustmentHandler.Adjust)

	// Defectos
	defectHandler := NewDefectHandler(deps.Defects, er)
	defects := api.Group("/defects")
	defects.Post("/", stockKeepers, defectHandler.Register)
	defects.Get("/", anyRole, defectHandler.List)
	defects.Post("/:id/resolve", stockKeepers, defectHandler.Resolve)

	// Consultas (/low antes de /:sku)
	stockHandler := NewStockHandler(deps.Queries, er)
	stock := api.Group("/stock", anyRole)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/:sku", stockHandler.Get)
	stock.Get("/:sku/history", stockHandler.History)
	stock.Get("/:sku/reconciliation", stockHandler.Reconciliation)
}
