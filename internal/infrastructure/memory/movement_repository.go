package memory

import (
	"context"
	"iter"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct {
	a access
}

// Append asigna Seq y guarda una copia del movimiento.
func (r *MovementRepo) Append(_ context.Context, m *entity.Movement) error {
	return r.a.write(func(st *state) error {
		st.seq++
		m.Seq = st.seq
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

// HistoryFor recorre los movimientos del SKU del más reciente al más antiguo.
// Cada recorrido toma una foto del libro al empezar.
func (r *MovementRepo) HistoryFor(_ context.Context, accountID, sku string) iter.Seq2[*entity.Movement, error] {
	return func(yield func(*entity.Movement, error) bool) {
		var matched []*entity.Movement
		_ = r.a.read(func(st *state) error {
			for i := len(st.movements) - 1; i >= 0; i-- {
				m := st.movements[i]
				if m.AccountID == accountID && m.SKU == sku {
					cp := *m
					matched = append(matched, &cp)
				}
			}
			return nil
		})
		for _, m := range matched {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// ListBySale movimientos de una venta en orden de inserción.
func (r *MovementRepo) ListBySale(_ context.Context, accountID, saleID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.AccountID == accountID && m.SaleID == saleID {
				cp := *m
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
