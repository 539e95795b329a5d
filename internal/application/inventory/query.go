package inventory

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// QueryFacade vistas de solo lectura sobre el almacén de variantes y el libro de movimientos.
type QueryFacade struct {
	variants          repository.VariantRepository
	movements         repository.MovementRepository
	lowStockThreshold int
	historyLimit      int
}

// NewQueryFacade construye la fachada. lowStockThreshold es el umbral por defecto de LowStock.
func NewQueryFacade(variants repository.VariantRepository, movements repository.MovementRepository, lowStockThreshold, historyLimit int) *QueryFacade {
	return &QueryFacade{
		variants:          variants,
		movements:         movements,
		lowStockThreshold: lowStockThreshold,
		historyLimit:      historyLimit,
	}
}

// CurrentQuantity cantidad actual y precios de la variante.
func (q *QueryFacade) CurrentQuantity(ctx context.Context, accountID, sku string) (*dto.StockResponse, error) {
	it, err := q.variants.GetVariant(ctx, accountID, sku)
	if err != nil {
		return nil, err
	}
	out := toStockResponse(it)
	return &out, nil
}

// LowStock variantes con cantidad < threshold; nil usa el umbral configurado.
func (q *QueryFacade) LowStock(ctx context.Context, accountID string, threshold *int) ([]dto.StockResponse, error) {
	t := q.lowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
		}
		t = *threshold
	}
	items, err := q.variants.ListBelow(ctx, accountID, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, len(items))
	for i, it := range items {
		out[i] = toStockResponse(it)
	}
	return out, nil
}

// HistoryFor secuencia perezosa del libro, más reciente primero. Sigue disponible para
// variantes eliminadas del catálogo.
func (q *QueryFacade) HistoryFor(ctx context.Context, accountID, sku string) iter.Seq2[*entity.Movement, error] {
	return q.movements.HistoryFor(ctx, accountID, sku)
}

// History primeros limit movimientos (0 usa el límite configurado).
func (q *QueryFacade) History(ctx context.Context, accountID, sku string, limit int) (*dto.HistoryResponse, error) {
	if limit <= 0 || limit > q.historyLimit {
		limit = q.historyLimit
	}
	out := &dto.HistoryResponse{SKU: sku, Movements: []dto.MovementResponse{}}
	for m, err := range q.HistoryFor(ctx, accountID, sku) {
		if err != nil {
			return nil, err
		}
		if len(out.Movements) == limit {
			out.HasMore = true
			break
		}
		out.Movements = append(out.Movements, toMovementResponse(m))
	}
	return out, nil
}

// QuantityAt reconstruye la cantidad de la variante en un instante pasado a partir del libro.
func (q *QueryFacade) QuantityAt(ctx context.Context, accountID, sku string, at time.Time) (int, error) {
	it, err := q.variants.GetVariant(ctx, accountID, sku)
	if err != nil {
		return 0, err
	}
	return inventory.QuantityAt(it.Quantity, q.HistoryFor(ctx, accountID, sku), at)
}

// Reconcile verifica que la cantidad proyectada coincida con el libro.
// Con at informado también devuelve la cantidad reconstruida en ese instante.
func (q *QueryFacade) Reconcile(ctx context.Context, accountID, sku string, at *time.Time) (*dto.ReconciliationResponse, error) {
	it, err := q.variants.GetVariant(ctx, accountID, sku)
	if err != nil {
		return nil, err
	}
	r, err := inventory.Reconcile(it.Quantity, q.HistoryFor(ctx, accountID, sku))
	if err != nil {
		return nil, err
	}
	out := &dto.ReconciliationResponse{
		SKU:         sku,
		Current:     r.Current,
		Initial:     r.Initial,
		SignedSum:   r.SignedSum,
		LedgerAfter: r.LedgerAfter,
		Movements:   r.Movements,
		ChainGaps:   r.ChainGaps,
		Consistent:  r.Consistent,
	}
	if at != nil {
		qty, err := inventory.QuantityAt(it.Quantity, q.HistoryFor(ctx, accountID, sku), *at)
		if err != nil {
			return nil, err
		}
		out.QuantityAt = &qty
	}
	return out, nil
}
