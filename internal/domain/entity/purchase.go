package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra (factura de proveedor).
const (
	PurchaseStatusPending  = "pending"
	PurchaseStatusReceived = "received" // mercancía recibida: suma stock
)

// ValidPurchaseStatus indica si s es un estado de compra conocido.
func ValidPurchaseStatus(s string) bool {
	return s == PurchaseStatusPending || s == PurchaseStatusReceived
}

// Purchase cabecera de una factura de compra a proveedor.
type Purchase struct {
	ID            string
	SupplierID    string
	InvoiceNumber string
	Date          time.Time
	Status        string
	TotalAmount   decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []*PurchaseItem
}

// IsReceived indica si la compra ya aportó stock.
func (p *Purchase) IsReceived() bool {
	return p.Status == PurchaseStatusReceived
}

// PurchaseItem línea de una factura de compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
