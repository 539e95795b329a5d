package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas. Las ventas nunca se eliminan.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, accountID, id string) (*entity.Sale, error)
	List(ctx context.Context, accountID string, limit, offset int) ([]*entity.Sale, error)
	// MarkReversed cambia active -> reversed de forma condicional; domain.ErrAlreadyReversed si ya no estaba activa.
	MarkReversed(ctx context.Context, accountID, id string, at time.Time) error
	// MarkReceived cambia receivable -> received; domain.ErrConflict si ya estaba cobrada.
	MarkReceived(ctx context.Context, accountID, id string) error
}
