package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// OrderHandler checkout web y pedidos de mostrador (POS).
type OrderHandler struct {
	uc       *inventory.OrderUseCase
	notifier *events.Notifier
	log      *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *inventory.OrderUseCase, notifier *events.Notifier, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, notifier: notifier, log: log}
}

// Checkout godoc
// @Summary      Crear pedido (checkout)
// @Description  Valida stock de todas las líneas y descuenta inventario en una sola transacción.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "cliente, total, método de pago e items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	return h.create(c)
}

// CreatePOS godoc
// @Summary      Crear pedido de mostrador (POS)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "items y datos del cliente"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/orders [post]
func (h *OrderHandler) CreatePOS(c *fiber.Ctx) error {
	return h.create(c)
}

func (h *OrderHandler) create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.ProcessOrderFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.notifier.OrderPlaced(c.Context(), order)
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toOrderResponse(order))
}
