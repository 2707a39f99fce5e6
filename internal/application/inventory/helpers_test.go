package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
	"github.com/jhoicas/bakery-api/internal/infrastructure/memory"
)

const (
	breadID     = "11111111-1111-1111-1111-111111111111"
	croissantID = "22222222-2222-2222-2222-222222222222"
	cakeID      = "33333333-3333-3333-3333-333333333333"
	missingID   = "99999999-9999-9999-9999-999999999999"
)

// engine arma los casos de uso sobre un Store en memoria, con un spyRunner en medio.
type engine struct {
	store     *memory.Store
	spy       *spyRunner
	orders    *inventory.OrderUseCase
	purchases *inventory.PurchaseUseCase
	stock     *inventory.StockUseCase
}

func newEngine(t *testing.T, stocks map[string]int) *engine {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for id, stock := range stocks {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{
			ID: id, Name: "producto " + id[:4], Price: decimal.NewFromInt(2), Stock: stock,
		}))
	}
	spy := &spyRunner{inner: store}
	return &engine{
		store:     store,
		spy:       spy,
		orders:    inventory.NewOrderUseCase(spy, store.Orders()),
		purchases: inventory.NewPurchaseUseCase(spy, store.Purchases()),
		stock:     inventory.NewStockUseCase(store.Products()),
	}
}

func (e *engine) stockOf(t *testing.T, id string) int {
	t.Helper()
	s, err := e.stock.ReadStock(context.Background(), id)
	require.NoError(t, err)
	return s
}

func line(productID string, qty int) inventory.OrderLine {
	return inventory.OrderLine{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(2)}
}

func pline(productID string, qty int) inventory.PurchaseLine {
	return inventory.PurchaseLine{ProductID: productID, Quantity: qty, UnitCost: decimal.NewFromInt(1)}
}

func customer() inventory.OrderDraft {
	return inventory.OrderDraft{CustomerName: "Ana", CustomerEmail: "ana@example.com", PaymentMethod: "cash"}
}

func supplier(status string) inventory.PurchaseDraft {
	return inventory.PurchaseDraft{SupplierID: "molino-sa", InvoiceNumber: "F-1", Status: status}
}

// ──────────────────────────────────────────────────────────────────────────────
// spyRunner: registra ids creados dentro de la tx e inyecta fallos de almacenamiento
// ──────────────────────────────────────────────────────────────────────────────

type spyRunner struct {
	inner           inventory.TxRunner
	createdOrders   []string
	decrements      int
	stockWrites     []string // ids en el orden en que ApplyStockDelta los tocó
	failOnOrderItem error
}

func (s *spyRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	return s.inner.Run(ctx, func(p repository.ProductRepository, o repository.OrderRepository, pu repository.PurchaseRepository) error {
		return fn(&spyProducts{ProductRepository: p, spy: s}, &spyOrders{OrderRepository: o, spy: s}, pu)
	})
}

type spyProducts struct {
	repository.ProductRepository
	spy *spyRunner
}

func (p *spyProducts) DecrementStockIfAvailable(ctx context.Context, id string, qty int) (int, bool, error) {
	stock, ok, err := p.ProductRepository.DecrementStockIfAvailable(ctx, id, qty)
	if ok {
		p.spy.decrements++
	}
	return stock, ok, err
}

func (p *spyProducts) ApplyStockDelta(ctx context.Context, id string, delta int) (int, error) {
	p.spy.stockWrites = append(p.spy.stockWrites, id)
	return p.ProductRepository.ApplyStockDelta(ctx, id, delta)
}

type spyOrders struct {
	repository.OrderRepository
	spy *spyRunner
}

func (o *spyOrders) Create(ctx context.Context, order *entity.Order) error {
	o.spy.createdOrders = append(o.spy.createdOrders, order.ID)
	return o.OrderRepository.Create(ctx, order)
}

func (o *spyOrders) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	if o.spy.failOnOrderItem != nil {
		return o.spy.failOnOrderItem
	}
	return o.OrderRepository.CreateItem(ctx, item)
}
