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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras a proveedor y sus líneas sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, supplier_id, invoice_number, date, status, total_amount, notes, created_at, updated_at`

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.InvoiceNumber, p.Date, p.Status, p.TotalAmount, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateItem(ctx context.Context, it *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if !validID(it.ProductID) {
		return domain.NewProductNotFound(it.ProductID)
	}
	_, err := r.q.Exec(ctx, query, it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return domain.NewProductNotFound(it.ProductID)
		}
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de la compra. (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero con FOR UPDATE: serializa revisiones concurrentes de la misma compra.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.Purchase, error) {
	if !validID(id) {
		return nil, nil
	}
	var p entity.Purchase
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.InvoiceNumber, &p.Date, &p.Status, &p.TotalAmount, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	if !validID(p.ID) {
		return domain.NewPurchaseNotFound(p.ID)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET supplier_id = $2, invoice_number = $3, date = $4, status = $5,
			total_amount = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.SupplierID, p.InvoiceNumber, p.Date, p.Status, p.TotalAmount, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewPurchaseNotFound(p.ID)
	}
	return nil
}

func (r *PurchaseRepo) GetItemsByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	if !validID(purchaseID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *PurchaseRepo) DeleteItemsByPurchaseID(ctx context.Context, purchaseID string) error {
	if !validID(purchaseID) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return nil
}
