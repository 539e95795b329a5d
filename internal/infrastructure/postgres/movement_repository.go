package postgres

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const defaultPageSize = 100

const movementColumns = `id, seq, account_id, product_id, sku, kind, quantity, quantity_before, quantity_after, reason, sale_id, created_by, created_at`

// MovementRepo libro de movimientos (solo INSERT) sobre PostgreSQL.
type MovementRepo struct {
	q        Querier
	pageSize int
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q, pageSize: defaultPageSize}
}

// WithPageSize tamaño de página para HistoryFor.
func (r *MovementRepo) WithPageSize(n int) *MovementRepo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Append inserta el movimiento; la secuencia la asigna la base.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, account_id, product_id, sku, kind, quantity, quantity_before, quantity_after, reason, sale_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.AccountID, m.ProductID, m.SKU, string(m.Kind), m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.Reason, nullIfEmpty(m.SaleID), m.CreatedBy, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

// HistoryFor pagina por seq descendente (keyset). Cada página se lee completa antes de entregarla,
// así la conexión no queda ocupada mientras el caller procesa.
func (r *MovementRepo) HistoryFor(ctx context.Context, accountID, sku string) iter.Seq2[*entity.Movement, error] {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE account_id = $1 AND sku = $2 AND seq < $3
		ORDER BY seq DESC
		LIMIT $4`
	return func(yield func(*entity.Movement, error) bool) {
		cursor := int64(math.MaxInt64)
		for {
			rows, err := r.q.Query(ctx, query, accountID, sku, cursor, r.pageSize)
			if err != nil {
				yield(nil, wrapErr("movement history", err))
				return
			}
			page, err := collectMovements(rows)
			if err != nil {
				yield(nil, wrapErr("movement history", err))
				return
			}
			for _, m := range page {
				if !yield(m, nil) {
					return
				}
			}
			if len(page) < r.pageSize {
				return
			}
			cursor = page[len(page)-1].Seq
		}
	}
}

// ListBySale movimientos generados por una venta y su reversión, en orden de inserción.
func (r *MovementRepo) ListBySale(ctx context.Context, accountID, saleID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE account_id = $1 AND sale_id = $2
		ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, accountID, saleID)
	if err != nil {
		return nil, wrapErr("list movements by sale", err)
	}
	list, err := collectMovements(rows)
	if err != nil {
		return nil, wrapErr("list movements by sale", err)
	}
	return list, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind string
		var saleID *string
		if err := rows.Scan(&m.ID, &m.Seq, &m.AccountID, &m.ProductID, &m.SKU, &kind, &m.Quantity,
			&m.QuantityBefore, &m.QuantityAfter, &m.Reason, &saleID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.SaleID = valueOrEmpty(saleID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
