package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// VariantRepo almacén de variantes en memoria.
type VariantRepo struct {
	a access
}

func stockItem(p *entity.Product, v entity.Variant) *entity.StockItem {
	return &entity.StockItem{ProductID: p.ID, ProductName: p.Name, CategoryID: p.CategoryID, Variant: v}
}

// GetVariant devuelve la variante o domain.ErrNotFound.
func (r *VariantRepo) GetVariant(_ context.Context, accountID, sku string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.a.read(func(st *state) error {
		p, err := productForSKU(st, accountID, sku)
		if err != nil {
			return err
		}
		out = stockItem(p, p.Variants[p.VariantIndex(sku)])
		return nil
	})
	return out, err
}

// ApplyDelta escritura condicional: solo aplica si la cantidad actual es expected.
func (r *VariantRepo) ApplyDelta(_ context.Context, accountID, productID, sku string, delta, expected int) (int, error) {
	var newQty int
	err := r.a.write(func(st *state) error {
		p, ok := st.products[key(accountID, productID)]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		i := p.VariantIndex(sku)
		if i < 0 {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, sku)
		}
		current := p.Variants[i].Quantity
		if current != expected {
			return fmt.Errorf("%w: sku %s esperado %d, actual %d", domain.ErrStaleState, sku, expected, current)
		}
		newQty = current + delta
		if newQty < 0 {
			return &domain.StockError{SKU: sku, Requested: -delta, Available: current}
		}
		np := p.WithQuantity(sku, newQty)
		st.products[key(accountID, productID)] = &np
		return nil
	})
	return newQty, err
}

// ListBelow variantes con cantidad menor al umbral.
func (r *VariantRepo) ListBelow(_ context.Context, accountID string, threshold int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.AccountID != accountID {
				continue
			}
			for _, v := range p.Variants {
				if v.Quantity < threshold {
					out = append(out, stockItem(p, v))
				}
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].SKU < out[j].SKU
	})
	return out, err
}
