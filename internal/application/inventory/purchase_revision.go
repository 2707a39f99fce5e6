package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// UpdatePurchase reemplaza cabecera y líneas de una compra existente.
// El stock aportado por la versión anterior (si estaba "received") se revierte y el de la nueva
// (si queda "received") se aplica; ambos se combinan en un delta neto por producto.
// Las líneas anteriores se leen antes del borrado; sin eso la reversión se saltaría en silencio.
func (uc *PurchaseUseCase) UpdatePurchase(ctx context.Context, id string, draft PurchaseDraft, lines []PurchaseLine) (*entity.Purchase, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	newStatus := strings.TrimSpace(draft.Status)
	if newStatus != "" && !entity.ValidPurchaseStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	total, lines, err := normalizePurchaseLines(draft.TotalAmount, lines)
	if err != nil {
		return nil, err
	}

	var purchase *entity.Purchase
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		// 1) Compra existente (fila bloqueada hasta el Commit)
		existing, err := purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return domain.WrapTx("get purchase", err)
		}
		if existing == nil {
			return domain.NewPurchaseNotFound(id)
		}
		// 2) Líneas vigentes, antes de cualquier borrado
		oldItems, err := purchaseRepo.GetItemsByPurchaseID(ctx, id)
		if err != nil {
			return domain.WrapTx("get purchase items", err)
		}
		if err := ensureProductsExist(ctx, productRepo, lines); err != nil {
			return err
		}

		updated := mergePurchase(existing, draft, newStatus, total, uc.now())

		// 3) Validación previa: el efecto neto no puede dejar stock negativo
		net := netStockEffect(existing, oldItems, updated, lines)
		if err := checkNetEffect(ctx, productRepo, net); err != nil {
			return err
		}

		// 4) Borrar líneas anteriores
		if err := purchaseRepo.DeleteItemsByPurchaseID(ctx, id); err != nil {
			return domain.WrapTx("delete purchase items", err)
		}
		// 5) Cabecera
		if err := purchaseRepo.Update(ctx, updated); err != nil {
			return domain.WrapTx("update purchase", err)
		}
		// 6) Líneas nuevas
		items, err := insertPurchaseItems(ctx, purchaseRepo, id, lines)
		if err != nil {
			return err
		}
		updated.Items = items
		// 7) Reversión + re-aplicación como un solo delta por producto, en orden de id
		// (mismo orden de bloqueo que ProcessOrder). El stock resultante se re-valida
		// por si hubo ventas concurrentes después del paso 3.
		if err := applyNetEffect(ctx, NewStockLedger(productRepo), net); err != nil {
			return err
		}
		purchase = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// mergePurchase construye la nueva cabecera: los campos vacíos del borrador heredan el valor existente.
func mergePurchase(existing *entity.Purchase, draft PurchaseDraft, status string, total decimal.Decimal, now time.Time) *entity.Purchase {
	updated := *existing
	updated.Items = nil
	if s := strings.TrimSpace(draft.SupplierID); s != "" {
		updated.SupplierID = s
	}
	if n := strings.TrimSpace(draft.InvoiceNumber); n != "" {
		updated.InvoiceNumber = n
	}
	if draft.Date != nil && !draft.Date.IsZero() {
		updated.Date = *draft.Date
	}
	if status != "" {
		updated.Status = status
	}
	if draft.Notes != nil {
		updated.Notes = *draft.Notes
	}
	updated.TotalAmount = total
	updated.UpdatedAt = now
	return &updated
}

// netStockEffect calcula, por producto, reversión + re-aplicación.
// Todo producto tocado queda como clave del mapa aunque su neto sea cero (+= 0 crea la entrada).
func netStockEffect(existing *entity.Purchase, oldItems []*entity.PurchaseItem, updated *entity.Purchase, lines []PurchaseLine) map[string]int {
	net := make(map[string]int)
	for _, item := range oldItems {
		net[item.ProductID] += 0
		if existing.IsReceived() {
			net[item.ProductID] -= item.Quantity
		}
	}
	for _, line := range lines {
		net[line.ProductID] += 0
		if updated.IsReceived() {
			net[line.ProductID] += line.Quantity
		}
	}
	return net
}

// applyNetEffect aplica los deltas no nulos en orden ascendente de id y rechaza cualquier
// resultado negativo (la transacción se revierte).
func applyNetEffect(ctx context.Context, ledger *StockLedger, net map[string]int) error {
	for _, productID := range sortedKeys(net) {
		delta := net[productID]
		if delta == 0 {
			continue
		}
		stock, err := ledger.ApplyDelta(ctx, productID, delta)
		if err != nil {
			return domain.WrapTx("apply stock delta", err)
		}
		if stock < 0 {
			return &domain.InsufficientStockError{
				ProductID: productID,
				Available: stock - delta,
				Requested: -delta,
			}
		}
	}
	return nil
}

func checkNetEffect(ctx context.Context, productRepo repository.ProductRepository, net map[string]int) error {
	for _, productID := range sortedKeys(net) {
		delta := net[productID]
		if delta >= 0 {
			continue
		}
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return domain.WrapTx("get product", err)
		}
		if product == nil {
			return domain.NewProductNotFound(productID)
		}
		if product.Stock+delta < 0 {
			return &domain.InsufficientStockError{
				ProductID:   productID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   -delta,
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
