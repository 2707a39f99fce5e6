package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// StockHandler lectura pública de stock.
type StockHandler struct {
	uc  *inventory.StockUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Stock de un producto
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	stock, err := h.uc.ReadStock(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.StockResponse{ProductID: id, Stock: stock})
}
