package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DefectiveItemRepo unidades defectuosas en memoria.
type DefectiveItemRepo struct {
	a access
}

func cloneDefect(d *entity.DefectiveItem) *entity.DefectiveItem {
	out := *d
	return &out
}

func (r *DefectiveItemRepo) Create(_ context.Context, item *entity.DefectiveItem) error {
	return r.a.write(func(st *state) error {
		k := key(item.AccountID, item.ID)
		if _, ok := st.defects[k]; ok {
			return fmt.Errorf("%w: defecto %s ya existe", domain.ErrConflict, item.ID)
		}
		st.defects[k] = cloneDefect(item)
		st.defectKeys = append(st.defectKeys, k)
		return nil
	})
}

func (r *DefectiveItemRepo) GetByID(_ context.Context, accountID, id string) (*entity.DefectiveItem, error) {
	var out *entity.DefectiveItem
	err := r.a.read(func(st *state) error {
		d, ok := st.defects[key(accountID, id)]
		if !ok {
			return fmt.Errorf("%w: defecto %s", domain.ErrNotFound, id)
		}
		out = cloneDefect(d)
		return nil
	})
	return out, err
}

func (r *DefectiveItemRepo) ListByStatus(_ context.Context, accountID string, status entity.DefectStatus) ([]*entity.DefectiveItem, error) {
	var out []*entity.DefectiveItem
	err := r.a.read(func(st *state) error {
		for i := len(st.defectKeys) - 1; i >= 0; i-- {
			d := st.defects[st.defectKeys[i]]
			if d.AccountID == accountID && (status == "" || d.Status == status) {
				out = append(out, cloneDefect(d))
			}
		}
		return nil
	})
	return out, err
}

func (r *DefectiveItemRepo) Resolve(_ context.Context, accountID, id string, at time.Time) error {
	return r.a.write(func(st *state) error {
		k := key(accountID, id)
		d, ok := st.defects[k]
		if !ok {
			return fmt.Errorf("%w: defecto %s", domain.ErrNotFound, id)
		}
		if d.Status != entity.DefectStatusPending {
			return fmt.Errorf("%w: el defecto ya fue resuelto", domain.ErrConflict)
		}
		cp := cloneDefect(d)
		cp.Status = entity.DefectStatusResolved
		cp.ResolvedAt = &at
		st.defects[k] = cp
		return nil
	})
}
