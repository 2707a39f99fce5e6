// Package memory implementa el almacenamiento del motor en memoria del proceso.
// Se usa como respaldo cuando STORAGE_DRIVER=memory (demos, pruebas).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

var _ inventory.Storage = (*Store)(nil)

// Store guarda todo el estado bajo un mutex. Las transacciones son serializables:
// Run toma el mutex, trabaja sobre una copia y la publica solo si fn no devuelve error.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	products      map[string]*entity.Product
	orders        map[string]*entity.Order
	orderItems    map[string][]*entity.OrderItem
	purchases     map[string]*entity.Purchase
	purchaseItems map[string][]*entity.PurchaseItem
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		products:      make(map[string]*entity.Product),
		orders:        make(map[string]*entity.Order),
		orderItems:    make(map[string][]*entity.OrderItem),
		purchases:     make(map[string]*entity.Purchase),
		purchaseItems: make(map[string][]*entity.PurchaseItem),
	}
}

// clone copia profunda: los repos de la tx nunca comparten punteros con el estado publicado.
func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, o := range s.orders {
		c.orders[id] = copyOrder(o)
	}
	for id, items := range s.orderItems {
		list := make([]*entity.OrderItem, len(items))
		for i, it := range items {
			cp := *it
			list[i] = &cp
		}
		c.orderItems[id] = list
	}
	for id, p := range s.purchases {
		cp := *p
		cp.Items = nil
		c.purchases[id] = &cp
	}
	for id, items := range s.purchaseItems {
		list := make([]*entity.PurchaseItem, len(items))
		for i, it := range items {
			cp := *it
			list[i] = &cp
		}
		c.purchaseItems[id] = list
	}
	return c
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = nil
	if o.UserID != nil {
		uid := *o.UserID
		cp.UserID = &uid
	}
	return &cp
}

// Run ejecuta fn con repos atados a una copia del estado; Commit = reemplazar el estado publicado.
// Un contexto cancelado antes del Commit descarta la copia.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return &domain.TransactionError{Op: "begin transaction", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	h := handle{tx: work}
	if err := fn(&ProductRepo{h: h}, &OrderRepo{h: h}, &PurchaseRepo{h: h}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.TransactionError{Op: "commit transaction", Err: err}
	}
	s.state = work
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &ProductRepo{h: handle{store: s}} }

// Orders repositorio de pedidos fuera de transacción.
func (s *Store) Orders() repository.OrderRepository { return &OrderRepo{h: handle{store: s}} }

// Purchases repositorio de compras fuera de transacción.
func (s *Store) Purchases() repository.PurchaseRepository { return &PurchaseRepo{h: handle{store: s}} }

// handle resuelve sobre qué estado opera un repo: la copia de la tx (ya bajo el mutex)
// o el estado publicado, tomando el mutex por llamada.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) view(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.state)
}
