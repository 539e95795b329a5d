package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DefectiveItemRepository puerto para unidades dadas de baja por defecto.
type DefectiveItemRepository interface {
	Create(ctx context.Context, item *entity.DefectiveItem) error
	GetByID(ctx context.Context, accountID, id string) (*entity.DefectiveItem, error)
	// ListByStatus status vacío lista todos, más recientes primero.
	ListByStatus(ctx context.Context, accountID string, status entity.DefectStatus) ([]*entity.DefectiveItem, error)
	// Resolve pending -> resolved; domain.ErrConflict si ya estaba resuelto.
	Resolve(ctx context.Context, accountID, id string, at time.Time) error
}
