package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-api/internal/application/dto"
	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
	"github.com/jhoicas/bakery-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/bakery-api/internal/interfaces/http"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	breadID     = "11111111-1111-1111-1111-111111111111"
	croissantID = "22222222-2222-2222-2222-222222222222"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: breadID, Name: "Pan francés", Price: decimal.RequireFromString("1.50"), Stock: 5, LowStockThreshold: 1}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: croissantID, Name: "Croissant", Price: decimal.RequireFromString("2.25"), Stock: 10}))

	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		OrderUC:    inventory.NewOrderUseCase(store, store.Orders()),
		PurchaseUC: inventory.NewPurchaseUseCase(store, store.Purchases()),
		StockUC:    inventory.NewStockUseCase(store.Products()),
		Notifier:   events.NewNotifier(events.NewLogPublisher(log), store.Products(), log),
		JWTSecret:  testJWTSecret,
		AppName:    "bakery-api-test",
		Log:        log,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) stock(t *testing.T, id string) int {
	t.Helper()
	s, err := f.store.Products().GetStock(context.Background(), id)
	require.NoError(t, err)
	return s
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func orderBody(productID string, qty int) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		PaymentMethod: "cash",
		Items: []dto.OrderItemRequest{
			{ProductID: productID, Quantity: qty, Price: decimal.RequireFromString("1.50")},
		},
	}
}

func purchaseBody(status string, qty int) dto.PurchaseRequest {
	return dto.PurchaseRequest{
		SupplierID:    "molino-sa",
		InvoiceNumber: "F-100",
		Date:          "2026-03-01",
		Status:        status,
		Items: []dto.PurchaseItemRequest{
			{ProductID: breadID, Quantity: qty, UnitCost: decimal.RequireFromString("0.80")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Vitrina
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestStock_ProductoExistenteYFaltante(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodGet, "/api/products/"+breadID+"/stock", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.StockResponse{ProductID: breadID, Stock: 5}, decode[dto.StockResponse](t, resp))

	resp = f.do(t, http.MethodGet, "/api/products/no-existe/stock", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
	require.NotNil(t, errBody.Detail)
	assert.Equal(t, "no-existe", errBody.Detail.ID)
}

func TestCheckout_InvitadoDescuentaStock(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/orders", "", orderBody(breadID, 3))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)

	assert.Nil(t, order.UserID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("4.50").Equal(order.Total))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, f.stock(t, breadID))
}

func TestCheckout_ConTokenAsociaUsuario(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/orders", tokenForRole(t, "customer"), orderBody(breadID, 1))
	order := decode[dto.OrderResponse](t, resp)
	require.NotNil(t, order.UserID)
	assert.Equal(t, testUserID, *order.UserID)
}

func TestCheckout_StockInsuficiente409(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/orders", "", orderBody(breadID, 10))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.NotNil(t, body.Detail)
	assert.Equal(t, breadID, body.Detail.ProductID)
	assert.Equal(t, "Pan francés", body.Detail.ProductName)
	require.NotNil(t, body.Detail.Available)
	assert.Equal(t, 5, *body.Detail.Available)
	assert.Equal(t, 10, *body.Detail.Requested)
	assert.Equal(t, 5, f.stock(t, breadID))
}

func TestCheckout_ProductoInexistente404(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/orders", "", orderBody("no-existe", 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCheckout_Validacion400(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/orders", "", orderBody(breadID, 0))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestCheckout_CantidadFueraDeRango400(t *testing.T) {
	f := newAPI(t)

	in := orderBody(breadID, math.MaxInt/2+1)
	in.Items = append(in.Items, in.Items[0])
	resp := f.do(t, http.MethodPost, "/api/orders", "", in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 5, f.stock(t, breadID))

	resp = f.do(t, http.MethodPost, "/api/admin/purchases", tokenForRole(t, "admin"), purchaseBody("received", math.MaxInt))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 5, f.stock(t, breadID))
}

func TestIDsQueNoSonUUID_Responden404(t *testing.T) {
	f := newAPI(t)
	admin := tokenForRole(t, "admin")

	cases := []struct {
		method, path, auth string
		body               any
	}{
		{http.MethodGet, "/api/products/pan-frances/stock", "", nil},
		{http.MethodPost, "/api/orders", "", orderBody("pan-frances", 1)},
		{http.MethodGet, "/api/admin/orders/abc", admin, nil},
		{http.MethodGet, "/api/admin/purchases/abc", admin, nil},
		{http.MethodPut, "/api/admin/purchases/abc", admin, purchaseBody("received", 1)},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := f.do(t, tc.method, tc.path, tc.auth, tc.body)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
		})
	}
	assert.Equal(t, 5, f.stock(t, breadID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Panel de administración
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_CajeroCreaYConsultaPedido(t *testing.T) {
	f := newAPI(t)
	auth := tokenForRole(t, "cashier")

	resp := f.do(t, http.MethodPost, "/api/admin/orders", auth, orderBody(croissantID, 4))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.OrderResponse](t, resp)

	resp = f.do(t, http.MethodGet, "/api/admin/orders/"+created.ID, auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.Equal(t, 6, f.stock(t, croissantID))
}

func TestPOS_SinTokenYClienteBloqueados(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/admin/orders", "", orderBody(breadID, 1))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/admin/orders", tokenForRole(t, "customer"), orderBody(breadID, 1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 5, f.stock(t, breadID))
}

func TestCompras_CajeroNoPuedeRegistrar(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/admin/purchases", tokenForRole(t, "cashier"), purchaseBody("received", 5))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompras_CrearEditarConsultar(t *testing.T) {
	f := newAPI(t)
	auth := tokenForRole(t, "admin")

	// Recibida: +20
	resp := f.do(t, http.MethodPost, "/api/admin/purchases", auth, purchaseBody("received", 20))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.PurchaseResponse](t, resp)
	assert.Equal(t, "2026-03-01", created.Date)
	assert.True(t, decimal.RequireFromString("16").Equal(created.TotalAmount))
	assert.Equal(t, 25, f.stock(t, breadID))

	// Edición: 5 recibidas => 5 + 5
	resp = f.do(t, http.MethodPut, "/api/admin/purchases/"+created.ID, auth, purchaseBody("received", 5))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, f.stock(t, breadID))

	resp = f.do(t, http.MethodGet, "/api/admin/purchases/"+created.ID, auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.PurchaseResponse](t, resp)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestCompras_EdicionQueDejariaStockNegativo409(t *testing.T) {
	f := newAPI(t)
	auth := tokenForRole(t, "admin")

	resp := f.do(t, http.MethodPost, "/api/admin/purchases", auth, purchaseBody("received", 20))
	created := decode[dto.PurchaseResponse](t, resp)

	// Se venden 24 de 25; revertir la compra a pendiente dejaría -19
	resp = f.do(t, http.MethodPost, "/api/orders", "", orderBody(breadID, 24))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/api/admin/purchases/"+created.ID, auth, purchaseBody("pending", 20))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 1, f.stock(t, breadID))
}

func TestCompras_EditarInexistente404(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPut, "/api/admin/purchases/no-existe", tokenForRole(t, "admin"), purchaseBody("pending", 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	require.NotNil(t, body.Detail)
	assert.Equal(t, "compra", body.Detail.Resource)
}

func TestCompras_FechaInvalida400(t *testing.T) {
	f := newAPI(t)
	in := purchaseBody("pending", 1)
	in.Date = "01/03/2026"
	resp := f.do(t, http.MethodPost, "/api/admin/purchases", tokenForRole(t, "admin"), in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo de almacenamiento → 500 TRANSACTION_FAILED
// ──────────────────────────────────────────────────────────────────────────────

type canceledRunner struct{ *memory.Store }

func (r canceledRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.OrderRepository, repository.PurchaseRepository) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return r.Store.Run(ctx, fn)
}

func TestCheckout_FalloDeTransaccion500(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{ID: breadID, Name: "Pan", Stock: 5}))
	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		OrderUC:    inventory.NewOrderUseCase(canceledRunner{store}, store.Orders()),
		PurchaseUC: inventory.NewPurchaseUseCase(store, store.Purchases()),
		StockUC:    inventory.NewStockUseCase(store.Products()),
		Notifier:   events.NewNotifier(events.NewLogPublisher(log), store.Products(), log),
		JWTSecret:  testJWTSecret,
		Log:        log,
	})
	f := &apiFixture{app: app, store: store}

	resp := f.do(t, http.MethodPost, "/api/orders", "", orderBody(breadID, 1))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "TRANSACTION_FAILED", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 5, f.stock(t, breadID))
}
