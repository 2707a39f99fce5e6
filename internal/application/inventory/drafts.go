package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// OrderDraft datos de cabecera de un pedido nuevo (checkout o POS).
// Status vacío se completa con "pending"; Total cero se calcula con la suma de subtotales.
type OrderDraft struct {
	UserID        *string
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
}

// OrderLine línea de pedido. Subtotal cero se calcula como Quantity * Price.
type OrderLine struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}

// PurchaseDraft datos de cabecera de una compra. En creación: Status vacío = "pending",
// Date nil = ahora. En edición los vacíos heredan el valor existente.
type PurchaseDraft struct {
	SupplierID    string
	InvoiceNumber string
	Date          *time.Time
	Status        string
	Notes         *string
	TotalAmount   decimal.Decimal
}

// PurchaseLine línea de compra. Subtotal cero se calcula como Quantity * UnitCost.
type PurchaseLine struct {
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
}

// normalizeOrder aplica los valores por defecto del contrato y valida la forma del pedido.
func normalizeOrder(draft OrderDraft, lines []OrderLine) (OrderDraft, []OrderLine, error) {
	if len(lines) == 0 {
		return draft, nil, domain.ErrInvalidInput
	}
	draft.Status = strings.TrimSpace(draft.Status)
	if draft.Status == "" {
		draft.Status = entity.OrderStatusPending
	}
	if !entity.ValidOrderStatus(draft.Status) {
		return draft, nil, domain.ErrInvalidInput
	}
	out := make([]OrderLine, len(lines))
	perProduct := make(map[string]int, len(lines))
	sum := decimal.Zero
	for i, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Price.IsNegative() || l.Subtotal.IsNegative() {
			return draft, nil, domain.ErrInvalidInput
		}
		if err := addQuantity(perProduct, l.ProductID, l.Quantity); err != nil {
			return draft, nil, err
		}
		if l.Subtotal.IsZero() {
			l.Subtotal = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		sum = sum.Add(l.Subtotal)
		out[i] = l
	}
	if draft.Total.IsNegative() {
		return draft, nil, domain.ErrInvalidInput
	}
	if draft.Total.IsZero() {
		draft.Total = sum
	}
	return draft, out, nil
}

// normalizePurchaseLines valida las líneas de compra y completa subtotales y total.
func normalizePurchaseLines(total decimal.Decimal, lines []PurchaseLine) (decimal.Decimal, []PurchaseLine, error) {
	if len(lines) == 0 || total.IsNegative() {
		return total, nil, domain.ErrInvalidInput
	}
	out := make([]PurchaseLine, len(lines))
	perProduct := make(map[string]int, len(lines))
	sum := decimal.Zero
	for i, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.UnitCost.IsNegative() || l.Subtotal.IsNegative() {
			return total, nil, domain.ErrInvalidInput
		}
		if err := addQuantity(perProduct, l.ProductID, l.Quantity); err != nil {
			return total, nil, err
		}
		if l.Subtotal.IsZero() {
			l.Subtotal = l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		sum = sum.Add(l.Subtotal)
		out[i] = l
	}
	if total.IsZero() {
		total = sum
	}
	return total, out, nil
}

// addQuantity acumula qty para el producto. Cada cantidad y la suma por producto deben estar
// en (0, entity.MaxStock]; así la suma nunca desborda int.
func addQuantity(perProduct map[string]int, productID string, qty int) error {
	if qty <= 0 || qty > entity.MaxStock {
		return domain.ErrInvalidInput
	}
	if perProduct[productID] > entity.MaxStock-qty {
		return domain.ErrInvalidInput
	}
	perProduct[productID] += qty
	return nil
}
