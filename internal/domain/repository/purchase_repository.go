package repository

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate obtiene la compra y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	// Update reescribe los campos de cabecera (no toca las líneas).
	Update(ctx context.Context, purchase *entity.Purchase) error
	GetItemsByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	DeleteItemsByPurchaseID(ctx context.Context, purchaseID string) error
}
