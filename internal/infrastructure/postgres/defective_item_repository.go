package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.DefectiveItemRepository = (*DefectiveItemRepo)(nil)

const defectColumns = `id, account_id, product_id, product_name, category_id, sku, size, color, quantity, unit_cost, sale_price,
	description, suggested_action, movement_id, status, registered_at, resolved_at, created_by`

// DefectiveItemRepo unidades dadas de baja por defecto.
type DefectiveItemRepo struct {
	q Querier
}

// NewDefectiveItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDefectiveItemRepository(q Querier) *DefectiveItemRepo {
	return &DefectiveItemRepo{q: q}
}

// Create guarda la copia de la variante junto con el registro.
func (r *DefectiveItemRepo) Create(ctx context.Context, d *entity.DefectiveItem) error {
	query := `
		INSERT INTO defective_items (` + defectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	it := d.Item
	_, err := r.q.Exec(ctx, query,
		d.ID, d.AccountID, it.ProductID, it.ProductName, it.CategoryID, it.SKU, it.Size, it.Color, it.Quantity,
		it.UnitCost, it.SalePrice, d.Description, d.SuggestedAction, d.MovementID, string(d.Status),
		d.RegisteredAt, d.ResolvedAt, d.CreatedBy,
	)
	if err != nil {
		return wrapErr("insert defective item", err)
	}
	return nil
}

func scanDefect(row pgx.Row) (*entity.DefectiveItem, error) {
	var d entity.DefectiveItem
	var status string
	it := &d.Item
	err := row.Scan(&d.ID, &d.AccountID, &it.ProductID, &it.ProductName, &it.CategoryID, &it.SKU, &it.Size, &it.Color,
		&it.Quantity, &it.UnitCost, &it.SalePrice, &d.Description, &d.SuggestedAction, &d.MovementID, &status,
		&d.RegisteredAt, &d.ResolvedAt, &d.CreatedBy)
	if err != nil {
		return nil, err
	}
	d.Status = entity.DefectStatus(status)
	return &d, nil
}

// GetByID obtiene un registro de defecto.
func (r *DefectiveItemRepo) GetByID(ctx context.Context, accountID, id string) (*entity.DefectiveItem, error) {
	query := `SELECT ` + defectColumns + ` FROM defective_items WHERE account_id = $1 AND id = $2`
	d, err := scanDefect(r.q.QueryRow(ctx, query, accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("defecto %s: %w", id, domain.ErrNotFound)
		}
		return nil, wrapErr("get defective item", err)
	}
	return d, nil
}

// ListByStatus status vacío lista todos.
func (r *DefectiveItemRepo) ListByStatus(ctx context.Context, accountID string, status entity.DefectStatus) ([]*entity.DefectiveItem, error) {
	query := `SELECT ` + defectColumns + `
		FROM defective_items
		WHERE account_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY registered_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, accountID, string(status))
	if err != nil {
		return nil, wrapErr("list defective items", err)
	}
	defer rows.Close()

	var list []*entity.DefectiveItem
	for rows.Next() {
		d, err := scanDefect(rows)
		if err != nil {
			return nil, fmt.Errorf("scan defective item: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list defective items", err)
	}
	return list, nil
}

// Resolve pending -> resolved sin tocar el stock.
func (r *DefectiveItemRepo) Resolve(ctx context.Context, accountID, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE defective_items SET status = $3, resolved_at = $4 WHERE account_id = $1 AND id = $2 AND status = $5`,
		accountID, id, string(entity.DefectStatusResolved), at, string(entity.DefectStatusPending),
	)
	if err != nil {
		return wrapErr("resolve defective item", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: el defecto %s ya estaba resuelto", domain.ErrConflict, id)
}
