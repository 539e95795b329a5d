package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AdjustmentRepository registros de ajustes manuales.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
}
