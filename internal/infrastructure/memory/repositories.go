package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct {
	h handle
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Stock < 0 || product.Stock > entity.MaxStock {
		return fmt.Errorf("insert product: stock fuera de rango")
	}
	return r.h.view(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *product
		st.products[product.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.view(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetStock(_ context.Context, id string) (int, error) {
	var stock int
	err := r.h.view(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NewProductNotFound(id)
		}
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) ApplyStockDelta(_ context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.h.view(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NewProductNotFound(id)
		}
		// Mismo rango que la columna INTEGER de PostgreSQL
		next := int64(p.Stock) + int64(delta)
		if next > entity.MaxStock || next < -entity.MaxStock-1 {
			return fmt.Errorf("%w: stock fuera de rango", domain.ErrInvalidInput)
		}
		p.Stock = int(next)
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) DecrementStockIfAvailable(_ context.Context, id string, qty int) (int, bool, error) {
	var (
		stock int
		ok    bool
	)
	err := r.h.view(func(st *state) error {
		p, found := st.products[id]
		if !found || qty < 0 || p.Stock < qty {
			return nil
		}
		p.Stock -= qty
		stock, ok = p.Stock, true
		return nil
	})
	return stock, ok, err
}

// OrderRepo pedidos en memoria.
type OrderRepo struct {
	h handle
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.h.view(func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[order.ID] = copyOrder(order)
		return nil
	})
}

func (r *OrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	return r.h.view(func(st *state) error {
		if _, ok := st.orders[item.OrderID]; !ok {
			return fmt.Errorf("insert order item: pedido %s inexistente", item.OrderID)
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return fmt.Errorf("insert order item: producto %s inexistente", item.ProductID)
		}
		cp := *item
		st.orderItems[item.OrderID] = append(st.orderItems[item.OrderID], &cp)
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.h.view(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetItemsByOrderID(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.h.view(func(st *state) error {
		for _, it := range st.orderItems[orderID] {
			cp := *it
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct {
	h handle
}

func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	return r.h.view(func(st *state) error {
		if _, ok := st.purchases[purchase.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *purchase
		cp.Items = nil
		st.purchases[purchase.ID] = &cp
		return nil
	})
}

func (r *PurchaseRepo) CreateItem(_ context.Context, item *entity.PurchaseItem) error {
	return r.h.view(func(st *state) error {
		if _, ok := st.purchases[item.PurchaseID]; !ok {
			return fmt.Errorf("insert purchase item: compra %s inexistente", item.PurchaseID)
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return fmt.Errorf("insert purchase item: producto %s inexistente", item.ProductID)
		}
		cp := *item
		st.purchaseItems[item.PurchaseID] = append(st.purchaseItems[item.PurchaseID], &cp)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.h.view(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la tx ya tiene el mutex del Store.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) Update(_ context.Context, purchase *entity.Purchase) error {
	return r.h.view(func(st *state) error {
		if _, ok := st.purchases[purchase.ID]; !ok {
			return domain.NewPurchaseNotFound(purchase.ID)
		}
		cp := *purchase
		cp.Items = nil
		st.purchases[purchase.ID] = &cp
		return nil
	})
}

func (r *PurchaseRepo) GetItemsByPurchaseID(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	err := r.h.view(func(st *state) error {
		for _, it := range st.purchaseItems[purchaseID] {
			cp := *it
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) DeleteItemsByPurchaseID(_ context.Context, purchaseID string) error {
	return r.h.view(func(st *state) error {
		delete(st.purchaseItems, purchaseID)
		return nil
	})
}
