package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const stockItemColumns = `p.id, p.name, p.category_id, v.sku, v.size, v.color, v.quantity, v.unit_cost, v.sale_price`

// VariantRepo variantes de producto sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ProductID, &it.ProductName, &it.CategoryID, &it.SKU, &it.Size, &it.Color,
		&it.Quantity, &it.UnitCost, &it.SalePrice)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetVariant obtiene la variante y los datos de su producto.
func (r *VariantRepo) GetVariant(ctx context.Context, accountID, sku string) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.account_id = $1 AND v.sku = $2`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, accountID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("variante %s: %w", sku, domain.ErrNotFound)
		}
		return nil, wrapErr("get variant", err)
	}
	return it, nil
}

// ApplyDelta UPDATE condicional: solo aplica si quantity sigue siendo expected.
// Dentro de una tx READ COMMITTED el UPDATE concurrente espera el lock de la fila y
// reevalúa el WHERE con la versión confirmada, así que el segundo escritor no encuentra fila.
func (r *VariantRepo) ApplyDelta(ctx context.Context, accountID, productID, sku string, delta, expected int) (int, error) {
	query := `
		UPDATE product_variants
		SET quantity = quantity + $5
		WHERE account_id = $1 AND product_id = $2 AND sku = $3 AND quantity = $4
		RETURNING quantity`
	var got int
	err := r.q.QueryRow(ctx, query, accountID, productID, sku, expected, delta).Scan(&got)
	if err == nil {
		return got, nil
	}
	if isCheckViolation(err) {
		return 0, &domain.StockError{SKU: sku, Requested: -delta, Available: expected}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrapErr("apply delta", err)
	}

	var current int
	err = r.q.QueryRow(ctx,
		`SELECT quantity FROM product_variants WHERE account_id = $1 AND product_id = $2 AND sku = $3`,
		accountID, productID, sku,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("variante %s: %w", sku, domain.ErrNotFound)
	}
	if err != nil {
		return 0, wrapErr("apply delta", err)
	}
	return 0, fmt.Errorf("%w: sku %s esperado %d, actual %d", domain.ErrStaleState, sku, expected, current)
}

// ListBelow variantes con quantity < threshold.
func (r *VariantRepo) ListBelow(ctx context.Context, accountID string, threshold int) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.account_id = $1 AND v.quantity < $2
		ORDER BY v.quantity ASC, v.sku ASC`
	rows, err := r.q.Query(ctx, query, accountID, threshold)
	if err != nil {
		return nil, wrapErr("list low stock", err)
	}
	defer rows.Close()

	var list []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list low stock", err)
	}
	return list, nil
}
