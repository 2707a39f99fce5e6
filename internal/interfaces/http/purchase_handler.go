package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// PurchaseHandler facturas de compra a proveedor (solo admin).
type PurchaseHandler struct {
	uc       *inventory.PurchaseUseCase
	notifier *events.Notifier
	log      *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.PurchaseUseCase, notifier *events.Notifier, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, notifier: notifier, log: log}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Con status "received" suma el stock de cada línea; "pending" no toca inventario.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PurchaseRequest  true  "proveedor, factura, status e items"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/admin/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	purchase, err := h.uc.ProcessPurchaseFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.notifier.PurchaseSaved(c.Context(), purchase, false)
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(purchase))
}

// Update godoc
// @Summary      Editar compra
// @Description  Revierte el aporte anterior, reemplaza líneas y re-aplica según el nuevo status.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la compra"
// @Param        body  body      dto.PurchaseRequest  true  "cabecera e items completos"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	purchase, err := h.uc.UpdatePurchaseFromRequest(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.notifier.PurchaseSaved(c.Context(), purchase, true)
	return c.JSON(toPurchaseResponse(purchase))
}

// GetByID godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.GetPurchase(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}
