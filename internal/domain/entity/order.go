package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus indica si s es un estado de pedido conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order cabecera de un pedido (checkout web o POS).
type Order struct {
	ID            string
	UserID        *string // nil para compras de invitado
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	State         string
	ZipCode       string
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []*OrderItem
}

// OrderItem línea de pedido. Price es la foto del precio al momento de la venta.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}
