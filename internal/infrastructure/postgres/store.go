package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

var _ inventory.Storage = (*Store)(nil)

// Store agrupa el TxRunner y los repos atados al pool (lecturas fuera de transacción).
type Store struct {
	*TxRunner
	pool *pgxpool.Pool
}

// NewStore construye el almacenamiento PostgreSQL sobre un pool ya abierto.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{TxRunner: NewTxRunner(pool), pool: pool}
}

func (s *Store) Products() repository.ProductRepository   { return NewProductRepository(s.pool) }
func (s *Store) Orders() repository.OrderRepository       { return NewOrderRepository(s.pool) }
func (s *Store) Purchases() repository.PurchaseRepository { return NewPurchaseRepository(s.pool) }
