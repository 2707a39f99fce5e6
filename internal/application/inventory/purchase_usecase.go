package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// PurchaseUseCase registra y edita facturas de compra manteniendo el stock consistente:
// el aporte de una compra al stock es siempre la suma de sus líneas actuales si está "received", y cero si no.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. purchaseRepo (atado al pool) se usa solo para lecturas.
func NewPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, purchaseRepo: purchaseRepo, now: time.Now}
}

// ProcessPurchase guarda la compra y sus líneas; si el estado es "received" suma stock por cada línea.
func (uc *PurchaseUseCase) ProcessPurchase(ctx context.Context, draft PurchaseDraft, lines []PurchaseLine) (*entity.Purchase, error) {
	draft.SupplierID = strings.TrimSpace(draft.SupplierID)
	draft.InvoiceNumber = strings.TrimSpace(draft.InvoiceNumber)
	if draft.SupplierID == "" || draft.InvoiceNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	status := strings.TrimSpace(draft.Status)
	if status == "" {
		status = entity.PurchaseStatusPending
	}
	if !entity.ValidPurchaseStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	total, lines, err := normalizePurchaseLines(draft.TotalAmount, lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date := now
	if draft.Date != nil && !draft.Date.IsZero() {
		date = *draft.Date
	}
	notes := ""
	if draft.Notes != nil {
		notes = *draft.Notes
	}

	var purchase *entity.Purchase
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := ensureProductsExist(ctx, productRepo, lines); err != nil {
			return err
		}

		purchase = &entity.Purchase{
			ID:            uuid.New().String(),
			SupplierID:    draft.SupplierID,
			InvoiceNumber: draft.InvoiceNumber,
			Date:          date,
			Status:        status,
			TotalAmount:   total,
			Notes:         notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return domain.WrapTx("insert purchase", err)
		}
		items, err := insertPurchaseItems(ctx, purchaseRepo, purchase.ID, lines)
		if err != nil {
			return err
		}
		purchase.Items = items

		if !purchase.IsReceived() {
			return nil
		}
		restock := make(map[string]int, len(items))
		for _, item := range items {
			restock[item.ProductID] += item.Quantity
		}
		return applyNetEffect(ctx, NewStockLedger(productRepo), restock)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// GetPurchase obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.NewPurchaseNotFound(id)
	}
	items, err := uc.purchaseRepo.GetItemsByPurchaseID(ctx, id)
	if err != nil {
		return nil, err
	}
	purchase.Items = items
	return purchase, nil
}

func ensureProductsExist(ctx context.Context, productRepo repository.ProductRepository, lines []PurchaseLine) error {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		product, err := productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return domain.WrapTx("get product", err)
		}
		if product == nil {
			return domain.NewProductNotFound(line.ProductID)
		}
		seen[line.ProductID] = true
	}
	return nil
}

func insertPurchaseItems(ctx context.Context, purchaseRepo repository.PurchaseRepository, purchaseID string, lines []PurchaseLine) ([]*entity.PurchaseItem, error) {
	items := make([]*entity.PurchaseItem, 0, len(lines))
	for _, line := range lines {
		item := &entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
			Subtotal:   line.Subtotal,
		}
		if err := purchaseRepo.CreateItem(ctx, item); err != nil {
			return nil, domain.WrapTx("insert purchase item", err)
		}
		items = append(items, item)
	}
	return items, nil
}
