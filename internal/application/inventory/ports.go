package inventory

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}

// Storage es el contrato de capacidades que debe cumplir cualquier almacenamiento
// (PostgreSQL o memoria). El motor solo depende de esta interfaz.
type Storage interface {
	TxRunner
	Products() repository.ProductRepository
	Orders() repository.OrderRepository
	Purchases() repository.PurchaseRepository
}
