package repository

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetItemsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
}
