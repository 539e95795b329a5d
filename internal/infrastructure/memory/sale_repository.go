package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	a access
}

func cloneSale(s *entity.Sale) *entity.Sale {
	out := *s
	out.Items = append([]entity.SaleItem(nil), s.Items...)
	return &out
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.write(func(st *state) error {
		k := key(sale.AccountID, sale.ID)
		if _, ok := st.sales[k]; ok {
			return fmt.Errorf("%w: venta %s ya existe", domain.ErrConflict, sale.ID)
		}
		st.sales[k] = cloneSale(sale)
		st.saleKeys = append(st.saleKeys, k)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, accountID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.read(func(st *state) error {
		s, ok := st.sales[key(accountID, id)]
		if !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		out = cloneSale(s)
		return nil
	})
	return out, err
}

// List ventas de la cuenta, más recientes primero.
func (r *SaleRepo) List(_ context.Context, accountID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.read(func(st *state) error {
		for i := len(st.saleKeys) - 1; i >= 0; i-- {
			s := st.sales[st.saleKeys[i]]
			if s.AccountID == accountID {
				out = append(out, cloneSale(s))
			}
		}
		return nil
	})
	return page(out, limit, offset), err
}

func (r *SaleRepo) MarkReversed(_ context.Context, accountID, id string, at time.Time) error {
	return r.a.write(func(st *state) error {
		k := key(accountID, id)
		s, ok := st.sales[k]
		if !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		if !s.IsActive() {
			return domain.ErrAlreadyReversed
		}
		cp := cloneSale(s)
		cp.Status = entity.SaleStatusReversed
		cp.ReversedAt = &at
		st.sales[k] = cp
		return nil
	})
}

func (r *SaleRepo) MarkReceived(_ context.Context, accountID, id string) error {
	return r.a.write(func(st *state) error {
		k := key(accountID, id)
		s, ok := st.sales[k]
		if !ok {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		if s.PaymentStatus != entity.PaymentStatusReceivable {
			return fmt.Errorf("%w: la venta no está pendiente de cobro", domain.ErrConflict)
		}
		cp := cloneSale(s)
		cp.PaymentStatus = entity.PaymentStatusReceived
		st.sales[k] = cp
		return nil
	})
}
