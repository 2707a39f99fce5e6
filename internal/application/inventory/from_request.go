package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
)

// ProcessOrderFromRequest adapta el request HTTP al caso de uso ProcessOrder.
// userID vacío = compra de invitado.
func (uc *OrderUseCase) ProcessOrderFromRequest(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	draft := OrderDraft{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		Total:         in.Total,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
	}
	if userID != "" {
		draft.UserID = &userID
	}
	lines := make([]OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, OrderLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		})
	}
	return uc.ProcessOrder(ctx, draft, lines)
}

// ProcessPurchaseFromRequest adapta el request HTTP al caso de uso ProcessPurchase.
func (uc *PurchaseUseCase) ProcessPurchaseFromRequest(ctx context.Context, in dto.PurchaseRequest) (*entity.Purchase, error) {
	draft, lines, err := purchaseInput(in)
	if err != nil {
		return nil, err
	}
	return uc.ProcessPurchase(ctx, draft, lines)
}

// UpdatePurchaseFromRequest adapta el request HTTP al caso de uso UpdatePurchase.
func (uc *PurchaseUseCase) UpdatePurchaseFromRequest(ctx context.Context, id string, in dto.PurchaseRequest) (*entity.Purchase, error) {
	draft, lines, err := purchaseInput(in)
	if err != nil {
		return nil, err
	}
	return uc.UpdatePurchase(ctx, id, draft, lines)
}

func purchaseInput(in dto.PurchaseRequest) (PurchaseDraft, []PurchaseLine, error) {
	date, err := parsePurchaseDate(in.Date)
	if err != nil {
		return PurchaseDraft{}, nil, err
	}
	draft := PurchaseDraft{
		SupplierID:    in.SupplierID,
		InvoiceNumber: in.InvoiceNumber,
		Date:          date,
		Status:        in.Status,
		Notes:         in.Notes,
		TotalAmount:   in.TotalAmount,
	}
	lines := make([]PurchaseLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, PurchaseLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal,
		})
	}
	return draft, lines, nil
}

// parsePurchaseDate acepta "2006-01-02" o RFC3339; vacío devuelve nil.
func parsePurchaseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, domain.ErrInvalidInput
}
