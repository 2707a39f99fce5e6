// Package events define los eventos de dominio que se publican después de un Commit exitoso.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type nombre del evento; también se envía como header "event-type".
type Type string

const (
	TypeOrderPlaced     Type = "order.placed"
	TypePurchaseSaved   Type = "purchase.saved"
	TypeProductLowStock Type = "product.low_stock"
)

// Event sobre común a todos los eventos. Key se usa como clave de partición.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New construye un evento con id y fecha asignados.
func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher puerto de salida de eventos (Kafka o log).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ItemPayload línea resumida (pedido o compra).
type ItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderPlacedPayload datos de order.placed.
type OrderPlacedPayload struct {
	OrderID string        `json:"order_id"`
	UserID  *string       `json:"user_id,omitempty"`
	Status  string        `json:"status"`
	Total   string        `json:"total"`
	Items   []ItemPayload `json:"items"`
}

// PurchaseSavedPayload datos de purchase.saved (creación o edición).
type PurchaseSavedPayload struct {
	PurchaseID    string        `json:"purchase_id"`
	SupplierID    string        `json:"supplier_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        string        `json:"status"`
	TotalAmount   string        `json:"total_amount"`
	Revision      bool          `json:"revision"`
	Items         []ItemPayload `json:"items"`
}

// LowStockPayload datos de product.low_stock.
type LowStockPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}
