package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepo catálogo en memoria. Hace las veces de la gestión de catálogo externa.
type ProductRepo struct {
	a access
}

func cloneProduct(p *entity.Product) *entity.Product {
	out := *p
	out.Variants = append([]entity.Variant(nil), p.Variants...)
	return &out
}

// Create registra el producto; el SKU de cada variante debe ser único en la cuenta.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product == nil || product.ID == "" || product.AccountID == "" {
		return domain.ErrInvalidInput
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.products[key(product.AccountID, product.ID)]; ok {
			return fmt.Errorf("%w: producto %s ya existe", domain.ErrConflict, product.ID)
		}
		seen := make(map[string]bool, len(product.Variants))
		for _, v := range product.Variants {
			if v.Quantity < 0 {
				return fmt.Errorf("%w: cantidad negativa en %s", domain.ErrInvalidInput, v.SKU)
			}
			if _, taken := st.skus[key(product.AccountID, v.SKU)]; taken || seen[v.SKU] {
				return fmt.Errorf("%w: sku %s duplicado", domain.ErrConflict, v.SKU)
			}
			seen[v.SKU] = true
		}
		st.products[key(product.AccountID, product.ID)] = cloneProduct(product)
		for _, v := range product.Variants {
			st.skus[key(product.AccountID, v.SKU)] = product.ID
		}
		return nil
	})
}

// GetByID devuelve una copia del producto o domain.ErrNotFound.
func (r *ProductRepo) GetByID(_ context.Context, accountID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		p, ok := st.products[key(accountID, id)]
		if !ok {
			return domain.ErrNotFound
		}
		out = cloneProduct(p)
		return nil
	})
	return out, err
}

// ListByAccount lista por nombre con paginación.
func (r *ProductRepo) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.AccountID == accountID {
				out = append(out, cloneProduct(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

// Delete elimina el producto y libera sus SKU. El libro de movimientos se conserva.
func (r *ProductRepo) Delete(_ context.Context, accountID, id string) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[key(accountID, id)]
		if !ok {
			return domain.ErrNotFound
		}
		for _, v := range p.Variants {
			delete(st.skus, key(accountID, v.SKU))
		}
		delete(st.products, key(accountID, id))
		return nil
	})
}

// SetSalePrice cambia el precio de venta de una variante (edición de catálogo).
func (r *ProductRepo) SetSalePrice(_ context.Context, accountID, sku string, price decimal.Decimal) error {
	return r.a.write(func(st *state) error {
		p, err := productForSKU(st, accountID, sku)
		if err != nil {
			return err
		}
		cp := cloneProduct(p)
		cp.Variants[cp.VariantIndex(sku)].SalePrice = price
		st.products[key(accountID, p.ID)] = cp
		return nil
	})
}

// SetQuantity sobrescribe la cantidad sin pasar por el libro. Simula un escritor concurrente
// o un error de datos en pruebas de conciliación.
func (r *ProductRepo) SetQuantity(_ context.Context, accountID, sku string, quantity int) error {
	return r.a.write(func(st *state) error {
		p, err := productForSKU(st, accountID, sku)
		if err != nil {
			return err
		}
		np := p.WithQuantity(sku, quantity)
		st.products[key(accountID, p.ID)] = &np
		return nil
	})
}

func productForSKU(st *state, accountID, sku string) (*entity.Product, error) {
	pid, ok := st.skus[key(accountID, sku)]
	if !ok {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, sku)
	}
	p, ok := st.products[key(accountID, pid)]
	if !ok {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
	}
	return p, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
