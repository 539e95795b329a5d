package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AdjustmentRepo ajustes manuales en memoria.
type AdjustmentRepo struct {
	a access
}

func (r *AdjustmentRepo) Create(_ context.Context, adj *entity.StockAdjustment) error {
	return r.a.write(func(st *state) error {
		cp := *adj
		st.adjustments = append(st.adjustments, &cp)
		return nil
	})
}

// ListBySKU ajustes de una variante en orden de creación.
func (r *AdjustmentRepo) ListBySKU(_ context.Context, accountID, sku string) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	err := r.a.read(func(st *state) error {
		for _, a := range st.adjustments {
			if a.AccountID == accountID && a.SKU == sku {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
