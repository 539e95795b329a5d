package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// VariantRepository almacén de variantes: cantidad actual (proyección) y precios.
type VariantRepository interface {
	// GetVariant devuelve la variante con los datos de su producto o domain.ErrNotFound.
	GetVariant(ctx context.Context, accountID, sku string) (*entity.StockItem, error)
	// ApplyDelta suma delta solo si la cantidad almacenada sigue siendo expected.
	// Devuelve domain.ErrStaleState si cambió y domain.ErrNotFound si la variante ya no existe.
	ApplyDelta(ctx context.Context, accountID, productID, sku string, delta, expected int) (int, error)
	// ListBelow variantes con cantidad < threshold, ordenadas por cantidad y SKU.
	ListBelow(ctx context.Context, accountID string, threshold int) ([]*entity.StockItem, error)
}
