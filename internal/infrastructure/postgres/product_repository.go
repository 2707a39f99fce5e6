package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su stock inicial.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, price, stock, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if !validID(product.ID) {
		return fmt.Errorf("%w: id de producto %q no es UUID", domain.ErrInvalidInput, product.ID)
	}
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.Stock, product.LowStockThreshold,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, name, price, stock, low_stock_threshold, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetStock(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, domain.NewProductNotFound(id)
	}
	var stock int
	err := r.q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return 0, domain.NewProductNotFound(id)
		}
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

// ApplyStockDelta suma delta al stock en una sola sentencia (sin leer-luego-escribir).
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, id string, delta int) (int, error) {
	if !validID(id) {
		return 0, domain.NewProductNotFound(id)
	}
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, delta,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return 0, domain.NewProductNotFound(id)
		}
		if isOutOfRange(err) {
			return 0, fmt.Errorf("%w: stock fuera de rango", domain.ErrInvalidInput)
		}
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return stock, nil
}

// DecrementStockIfAvailable resta qty solo si alcanza; la fila queda bloqueada hasta el fin de la tx.
func (r *ProductRepo) DecrementStockIfAvailable(ctx context.Context, id string, qty int) (int, bool, error) {
	if !validID(id) || qty < 0 {
		return 0, false, nil
	}
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2 RETURNING stock`,
		id, qty,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("decrement stock: %w", err)
	}
	return stock, true, nil
}
