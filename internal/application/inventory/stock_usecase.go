package inventory

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// StockUseCase lectura de stock fuera de transacción (vitrina, POS).
type StockUseCase struct {
	ledger *StockLedger
}

// NewStockUseCase construye el caso de uso sobre el repositorio atado al pool.
func NewStockUseCase(productRepo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{ledger: NewStockLedger(productRepo)}
}

// ReadStock devuelve el stock actual del producto.
func (uc *StockUseCase) ReadStock(ctx context.Context, productID string) (int, error) {
	return uc.ledger.ReadStock(ctx, productID)
}
