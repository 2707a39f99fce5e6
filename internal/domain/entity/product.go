package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock límite de products.stock (columna INTEGER). Ninguna cantidad ni stock puede superarlo.
const MaxStock = math.MaxInt32

// Product representa un producto de la panadería.
// Stock es un entero no negativo que solo cambia por deltas aplicados dentro de una transacción.
type Product struct {
	ID                string
	Name              string
	Price             decimal.Decimal // precio de venta
	Stock             int
	LowStockThreshold int // umbral de alerta de stock bajo
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock llegó (o bajó) al umbral configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
