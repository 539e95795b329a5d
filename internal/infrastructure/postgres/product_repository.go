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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos y variantes sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto con sus variantes. Un SKU repetido en la cuenta devuelve domain.ErrConflict.
// Sobre un pool abre su propia transacción; dentro de una tx usa un savepoint.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	b, ok := r.q.(Beginner)
	if !ok {
		return insertProduct(ctx, r.q, product)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return wrapErr("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := insertProduct(ctx, tx, product); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit", err)
	}
	return nil
}

func insertProduct(ctx context.Context, q Querier, product *entity.Product) error {
	query := `
		INSERT INTO products (id, account_id, name, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.Exec(ctx, query,
		product.ID, product.AccountID, product.Name, product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s: %w", product.ID, domain.ErrConflict)
		}
		return wrapErr("insert product", err)
	}

	variantQuery := `
		INSERT INTO product_variants (account_id, product_id, sku, size, color, quantity, unit_cost, sale_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, v := range product.Variants {
		if _, err := q.Exec(ctx, variantQuery,
			product.AccountID, product.ID, v.SKU, v.Size, v.Color, v.Quantity, v.UnitCost, v.SalePrice, i,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: sku %s ya existe", domain.ErrConflict, v.SKU)
			}
			return wrapErr("insert variant", err)
		}
	}
	return nil
}

// GetByID obtiene un producto con sus variantes en el orden del catálogo.
func (r *ProductRepo) GetByID(ctx context.Context, accountID, id string) (*entity.Product, error) {
	query := `
		SELECT id, account_id, name, category_id, created_at, updated_at
		FROM products WHERE account_id = $1 AND id = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, accountID, id).Scan(
		&p.ID, &p.AccountID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		return nil, wrapErr("get product", err)
	}
	if err := r.loadVariants(ctx, accountID, []*entity.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByAccount lista productos de la cuenta con paginación.
func (r *ProductRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, account_id, name, category_id, created_at, updated_at
		FROM products WHERE account_id = $1
		ORDER BY name, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list products", err)
	}
	rows.Close()
	if err := r.loadVariants(ctx, accountID, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) loadVariants(ctx context.Context, accountID string, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	query := `
		SELECT product_id, sku, size, color, quantity, unit_cost, sale_price
		FROM product_variants
		WHERE account_id = $1 AND product_id = ANY($2)
		ORDER BY product_id, position`
	rows, err := r.q.Query(ctx, query, accountID, ids)
	if err != nil {
		return wrapErr("list variants", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var v entity.Variant
		if err := rows.Scan(&productID, &v.SKU, &v.Size, &v.Color, &v.Quantity, &v.UnitCost, &v.SalePrice); err != nil {
			return fmt.Errorf("scan variant: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapErr("list variants", err)
	}
	return nil
}

// Delete elimina el producto y sus variantes (ON DELETE CASCADE). Los movimientos se conservan.
func (r *ProductRepo) Delete(ctx context.Context, accountID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
