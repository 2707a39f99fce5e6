package events

import (
	"context"

	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// Notifier traduce resultados confirmados del motor en eventos.
// Los fallos de publicación se registran y no se propagan: el Commit ya ocurrió.
type Notifier struct {
	pub      Publisher
	products repository.ProductRepository
	log      *logger.Logger
}

// NewNotifier construye el notificador. products (atado al pool) se usa para detectar stock bajo.
func NewNotifier(pub Publisher, products repository.ProductRepository, log *logger.Logger) *Notifier {
	return &Notifier{pub: pub, products: products, log: log.Component("events")}
}

// OrderPlaced publica order.placed y un product.low_stock por cada producto que quedó en o bajo su umbral.
func (n *Notifier) OrderPlaced(ctx context.Context, order *entity.Order) {
	items := make([]ItemPayload, 0, len(order.Items))
	productIDs := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ItemPayload{ProductID: it.ProductID, Quantity: it.Quantity})
		productIDs = append(productIDs, it.ProductID)
	}
	n.publish(ctx, New(TypeOrderPlaced, order.ID, OrderPlacedPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Total.String(),
		Items:   items,
	}))
	n.checkLowStock(ctx, productIDs)
}

// PurchaseSaved publica purchase.saved; revision indica si fue una edición.
// Una revisión puede restar stock, así que también revisa umbrales.
func (n *Notifier) PurchaseSaved(ctx context.Context, purchase *entity.Purchase, revision bool) {
	items := make([]ItemPayload, 0, len(purchase.Items))
	productIDs := make([]string, 0, len(purchase.Items))
	for _, it := range purchase.Items {
		items = append(items, ItemPayload{ProductID: it.ProductID, Quantity: it.Quantity})
		productIDs = append(productIDs, it.ProductID)
	}
	n.publish(ctx, New(TypePurchaseSaved, purchase.ID, PurchaseSavedPayload{
		PurchaseID:    purchase.ID,
		SupplierID:    purchase.SupplierID,
		InvoiceNumber: purchase.InvoiceNumber,
		Status:        purchase.Status,
		TotalAmount:   purchase.TotalAmount.String(),
		Revision:      revision,
		Items:         items,
	}))
	if revision {
		n.checkLowStock(ctx, productIDs)
	}
}

func (n *Notifier) checkLowStock(ctx context.Context, productIDs []string) {
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		product, err := n.products.GetByID(ctx, id)
		if err != nil {
			n.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo leer el producto para alerta de stock")
			continue
		}
		if product == nil || !product.IsLowStock() {
			continue
		}
		n.publish(ctx, New(TypeProductLowStock, product.ID, LowStockPayload{
			ProductID: product.ID,
			Name:      product.Name,
			Stock:     product.Stock,
			Threshold: product.LowStockThreshold,
		}))
	}
}

func (n *Notifier) publish(ctx context.Context, event Event) {
	if err := n.pub.Publish(ctx, event); err != nil {
		n.log.Error().Err(err).
			Str("event_type", string(event.Type)).
			Str("key", event.Key).
			Msg("fallo al publicar evento")
	}
}
