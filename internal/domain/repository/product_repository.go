package repository

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las implementaciones pueden estar atadas al pool o a una transacción.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetStock devuelve el stock actual o un *domain.NotFoundError.
	GetStock(ctx context.Context, id string) (int, error)
	// ApplyStockDelta ejecuta stock = stock + delta en una sola sentencia y devuelve el nuevo stock.
	// No valida que el resultado sea no negativo.
	ApplyStockDelta(ctx context.Context, id string, delta int) (int, error)
	// DecrementStockIfAvailable resta qty solo si stock >= qty (UPDATE condicional).
	// ok=false cuando la condición no se cumplió o el producto no existe.
	DecrementStockIfAvailable(ctx context.Context, id string, qty int) (newStock int, ok bool, err error)
}
