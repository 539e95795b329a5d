package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository libro de movimientos (solo inserción).
type MovementRepository interface {
	// Append persiste el movimiento y le asigna Seq. Solo falla por errores de almacenamiento.
	Append(ctx context.Context, m *entity.Movement) error
	// HistoryFor recorre los movimientos de un SKU del más reciente al más antiguo, por páginas.
	// Cada recorrido vuelve a consultar, por lo que incluye movimientos nuevos.
	HistoryFor(ctx context.Context, accountID, sku string) iter.Seq2[*entity.Movement, error]
	ListBySale(ctx context.Context, accountID, saleID string) ([]*entity.Movement, error)
}
