package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo registros de ajustes manuales.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create inserta el ajuste. movement_id es NULL cuando la cantidad no cambió.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, account_id, product_id, sku, quantity_before, target_quantity, reason, movement_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.AccountID, a.ProductID, a.SKU, a.QuantityBefore, a.TargetQuantity, a.Reason,
		nullIfEmpty(a.MovementID), a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert adjustment", err)
	}
	return nil
}
