package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ClassifyAdjustment calcula delta = objetivo - actual y el tipo de movimiento.
// Con delta cero devuelve tipo vacío: el ajuste solo confirma la cantidad y no genera movimiento.
func ClassifyAdjustment(current, target int, reason string) (int, entity.MovementKind, error) {
	if strings.TrimSpace(reason) == "" {
		return 0, "", fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidAdjustment)
	}
	if target < 0 {
		return 0, "", fmt.Errorf("%w: la cantidad objetivo no puede ser negativa", domain.ErrInvalidAdjustment)
	}
	if target > entity.MaxQuantity {
		return 0, "", fmt.Errorf("%w: la cantidad objetivo supera el máximo %d", domain.ErrInvalidAdjustment, entity.MaxQuantity)
	}
	delta := target - current
	switch {
	case delta > 0:
		return delta, entity.MovementKindManualIncrease, nil
	case delta < 0:
		return delta, entity.MovementKindManualDecrease, nil
	}
	return 0, "", nil
}

// DefectReason texto del movimiento de baja: "Defecto: " + primeros 30 caracteres de la descripción + "...".
// El sufijo va siempre, también con descripciones cortas.
func DefectReason(description string) string {
	r := []rune(strings.TrimSpace(description))
	if len(r) > 30 {
		r = r[:30]
	}
	return "Defecto: " + string(r) + "..."
}

// SaleReason texto del movimiento de venta.
func SaleReason(shortID string) string {
	return "Venta #" + shortID
}

// ReversalReason texto del movimiento de reversión.
func ReversalReason(shortID string) string {
	return "Reversión de la venta #" + shortID
}
