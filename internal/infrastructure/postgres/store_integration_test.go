package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bakery-api/pkg/config"
)

// Requiere una base de datos desechable: TEST_DATABASE_URL=postgres://... go test ./...
func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return postgres.NewStore(pool)
}

func createProduct(t *testing.T, store *postgres.Store, stock int) string {
	t.Helper()
	now := time.Now()
	id := uuid.New().String()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "pan " + id[:8], Price: decimal.RequireFromString("1.25"), Stock: stock,
		LowStockThreshold: 2, CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func TestPostgres_PedidoYCompra(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	productID := createProduct(t, store, 5)

	orders := inventory.NewOrderUseCase(store, store.Orders())
	purchases := inventory.NewPurchaseUseCase(store, store.Purchases())

	order, err := orders.ProcessOrder(ctx, inventory.OrderDraft{CustomerName: "Ana"}, []inventory.OrderLine{
		{ProductID: productID, Quantity: 3, Price: decimal.RequireFromString("1.25")},
	})
	require.NoError(t, err)
	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("3.75").Equal(got.Total))

	_, err = orders.ProcessOrder(ctx, inventory.OrderDraft{}, []inventory.OrderLine{{ProductID: productID, Quantity: 3}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := purchases.ProcessPurchase(ctx, inventory.PurchaseDraft{SupplierID: "s", InvoiceNumber: "F-1", Status: entity.PurchaseStatusReceived},
		[]inventory.PurchaseLine{{ProductID: productID, Quantity: 20, UnitCost: decimal.NewFromInt(1)}})
	require.NoError(t, err)
	stock, err := store.Products().GetStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 22, stock)

	_, err = purchases.UpdatePurchase(ctx, p.ID, inventory.PurchaseDraft{Status: entity.PurchaseStatusPending},
		[]inventory.PurchaseLine{{ProductID: productID, Quantity: 20, UnitCost: decimal.NewFromInt(1)}})
	require.NoError(t, err)
	stock, err = store.Products().GetStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)

	_, err = purchases.UpdatePurchase(ctx, uuid.New().String(), inventory.PurchaseDraft{},
		[]inventory.PurchaseLine{{ProductID: productID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_IDNoUUIDRespondeNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	productID := createProduct(t, store, 5)
	orders := inventory.NewOrderUseCase(store, store.Orders())
	purchases := inventory.NewPurchaseUseCase(store, store.Purchases())

	_, err := orders.ProcessOrder(ctx, inventory.OrderDraft{}, []inventory.OrderLine{{ProductID: "abc", Quantity: 1}})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "abc", nf.ID)
	assert.NotErrorIs(t, err, domain.ErrTransactionFailed)

	_, err = orders.GetOrder(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = purchases.ProcessPurchase(ctx, inventory.PurchaseDraft{SupplierID: "s", InvoiceNumber: "F-2"},
		[]inventory.PurchaseLine{{ProductID: "abc", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = purchases.UpdatePurchase(ctx, "abc", inventory.PurchaseDraft{},
		[]inventory.PurchaseLine{{ProductID: productID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stock, err := store.Products().GetStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)
}

func TestPostgres_ConcurrenciaNoSobrevende(t *testing.T) {
	store := newStore(t)
	productID := createProduct(t, store, 10)
	orders := inventory.NewOrderUseCase(store, store.Orders())

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.ProcessOrder(context.Background(), inventory.OrderDraft{}, []inventory.OrderLine{{ProductID: productID, Quantity: 1}})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stock, err := store.Products().GetStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 10, ok)
	assert.Equal(t, 0, stock)
}
