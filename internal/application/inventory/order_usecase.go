package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// OrderUseCase crea pedidos descontando inventario en una sola transacción.
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. orderRepo (atado al pool) se usa solo para lecturas.
func NewOrderUseCase(txRunner TxRunner, orderRepo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orderRepo: orderRepo, now: time.Now}
}

// lineDemand cantidad total pedida de un producto (suma de todas las líneas que lo referencian).
type lineDemand struct {
	product   *entity.Product
	requested int
}

// ProcessOrder valida stock de todas las líneas, descuenta, guarda cabecera y líneas, y hace Commit.
// Fase 1 (sin escrituras): existencia de productos y stock suficiente.
// Fase 2: descuento condicional por producto, inserción del pedido y sus líneas.
// Cualquier error revierte toda la transacción.
func (uc *OrderUseCase) ProcessOrder(ctx context.Context, draft OrderDraft, lines []OrderLine) (*entity.Order, error) {
	draft, lines, err := normalizeOrder(draft, lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var order *entity.Order

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		// 1) Cargar productos; el orden de validación sigue el orden de las líneas
		demand := make(map[string]*lineDemand, len(lines))
		var validationOrder []string
		for _, line := range lines {
			if d, ok := demand[line.ProductID]; ok {
				d.requested += line.Quantity
				continue
			}
			product, err := productRepo.GetByID(ctx, line.ProductID)
			if err != nil {
				return domain.WrapTx("get product", err)
			}
			if product == nil {
				return domain.NewProductNotFound(line.ProductID)
			}
			demand[line.ProductID] = &lineDemand{product: product, requested: line.Quantity}
			validationOrder = append(validationOrder, line.ProductID)
		}

		// 2) Validar todo antes de mutar
		for _, id := range validationOrder {
			d := demand[id]
			if d.product.Stock < d.requested {
				return &domain.InsufficientStockError{
					ProductID:   id,
					ProductName: d.product.Name,
					Available:   d.product.Stock,
					Requested:   d.requested,
				}
			}
		}

		// 3) Descontar en orden de id para que pedidos concurrentes bloqueen filas en el mismo orden
		ids := append([]string(nil), validationOrder...)
		sort.Strings(ids)
		ledger := NewStockLedger(productRepo)
		for _, id := range ids {
			d := demand[id]
			if _, err := ledger.TakeStock(ctx, id, d.product.Name, d.requested); err != nil {
				return domain.WrapTx("decrement stock", err)
			}
		}

		// 4) Cabecera
		order = &entity.Order{
			ID:            uuid.New().String(),
			UserID:        draft.UserID,
			CustomerName:  draft.CustomerName,
			CustomerEmail: draft.CustomerEmail,
			CustomerPhone: draft.CustomerPhone,
			Address:       draft.Address,
			City:          draft.City,
			State:         draft.State,
			ZipCode:       draft.ZipCode,
			Total:         draft.Total,
			PaymentMethod: draft.PaymentMethod,
			Status:        draft.Status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return domain.WrapTx("insert order", err)
		}

		// 5) Líneas
		for _, line := range lines {
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
				Subtotal:  line.Subtotal,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return domain.WrapTx("insert order item", err)
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder obtiene un pedido con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Resource: "pedido", ID: id}
	}
	items, err := uc.orderRepo.GetItemsByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}
