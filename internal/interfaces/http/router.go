package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/pkg/jwt"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC    *inventory.OrderUseCase
	PurchaseUC *inventory.PurchaseUseCase
	StockUC    *inventory.StockUseCase
	Notifier   *events.Notifier
	JWTSecret  string
	AppName    string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	orderHandler := NewOrderHandler(deps.OrderUC, deps.Notifier, deps.Log)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.Notifier, deps.Log)
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)

	// Vitrina (público; el token es opcional y solo asocia el pedido al usuario)
	api.Get("/products/:id/stock", stockHandler.Get)
	api.Post("/orders", OptionalAuth(deps.JWTSecret), orderHandler.Checkout)

	// Panel de administración (requiere Bearer Token)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret))

	orders := admin.Group("/orders", RequireRole(jwt.RoleAdmin, jwt.RoleCashier))
	orders.Post("/", orderHandler.CreatePOS)
	orders.Get("/:id", orderHandler.GetByID)

	purchases := admin.Group("/purchases", RequireRole(jwt.RoleAdmin))
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
}
