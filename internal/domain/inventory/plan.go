package inventory

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Line línea de una transacción de stock: variante, delta con signo y tipo de movimiento.
type Line struct {
	SKU    string
	Delta  int
	Kind   entity.MovementKind
	Reason string
}

// Validate verifica que el signo del delta coincida con el tipo de movimiento.
func (l Line) Validate() error {
	if l.SKU == "" {
		return fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	if !l.Kind.Valid() {
		return fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, l.Kind)
	}
	if l.Delta == 0 {
		return fmt.Errorf("%w: delta cero para sku %s", domain.ErrInvalidInput, l.SKU)
	}
	if l.Delta > entity.MaxQuantity || l.Delta < -entity.MaxQuantity {
		return fmt.Errorf("%w: delta %d fuera de rango para sku %s", domain.ErrInvalidInput, l.Delta, l.SKU)
	}
	if (l.Delta > 0) != (l.Kind.Sign() > 0) {
		return fmt.Errorf("%w: delta %d no corresponde al tipo %s", domain.ErrInvalidInput, l.Delta, l.Kind)
	}
	return nil
}

// Snapshot cantidades y precios leídos al inicio del commit, por SKU.
type Snapshot map[string]entity.StockItem

// PlannedLine línea validada con sus cantidades antes/después calculadas.
type PlannedLine struct {
	Item   entity.StockItem
	Kind   entity.MovementKind
	Delta  int
	Before int
	After  int
	Reason string
}

// Plan valida todas las líneas contra el snapshot y calcula before/after de cada una.
// Varias líneas del mismo SKU se encadenan: la segunda parte del after de la primera.
// Si alguna línea dejaría stock negativo devuelve *domain.StockError y ningún plan.
func Plan(snap Snapshot, lines []Line) ([]PlannedLine, error) {
	running := make(map[string]int, len(snap))
	planned := make([]PlannedLine, 0, len(lines))
	for _, l := range lines {
		item, ok := snap[l.SKU]
		if !ok {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.SKU)
		}
		before, seen := running[l.SKU]
		if !seen {
			before = item.Quantity
		}
		after := before + l.Delta
		if after < 0 {
			return nil, &domain.StockError{SKU: l.SKU, Requested: -l.Delta, Available: before}
		}
		if after > entity.MaxQuantity {
			return nil, fmt.Errorf("%w: la existencia de %s superaría el máximo %d", domain.ErrInvalidInput, l.SKU, entity.MaxQuantity)
		}
		running[l.SKU] = after
		planned = append(planned, PlannedLine{
			Item:   item,
			Kind:   l.Kind,
			Delta:  l.Delta,
			Before: before,
			After:  after,
			Reason: l.Reason,
		})
	}
	return planned, nil
}
