package inventory

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// StockLedger es el único punto del motor que lee o modifica products.stock.
// Se construye con un ProductRepository atado a la transacción en curso.
type StockLedger struct {
	products repository.ProductRepository
}

// NewStockLedger construye el accesor sobre el repositorio dado (pool o tx).
func NewStockLedger(products repository.ProductRepository) *StockLedger {
	return &StockLedger{products: products}
}

// ReadStock devuelve el stock actual; *domain.NotFoundError si el producto no existe.
func (l *StockLedger) ReadStock(ctx context.Context, productID string) (int, error) {
	return l.products.GetStock(ctx, productID)
}

// ApplyDelta suma delta (con signo) al stock en una sola sentencia atómica.
// No valida no-negatividad: las rutas de reposición no lo necesitan y las de salida validan antes.
func (l *StockLedger) ApplyDelta(ctx context.Context, productID string, delta int) (int, error) {
	return l.products.ApplyStockDelta(ctx, productID, delta)
}

// TakeStock resta qty con un UPDATE condicional (WHERE stock >= qty).
// Si otra transacción consumió el stock entre la validación y este punto, devuelve
// *domain.InsufficientStockError con el stock vigente.
func (l *StockLedger) TakeStock(ctx context.Context, productID, productName string, qty int) (int, error) {
	newStock, ok, err := l.products.DecrementStockIfAvailable(ctx, productID, qty)
	if err != nil {
		return 0, err
	}
	if ok {
		return newStock, nil
	}
	available, err := l.products.GetStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	return 0, &domain.InsufficientStockError{
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   qty,
	}
}
