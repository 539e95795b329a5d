package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Variants    repository.VariantRepository
	Movements   repository.MovementRepository
	Sales       repository.SaleRepository
	Adjustments repository.AdjustmentRepository
	Defects     repository.DefectiveItemRepository
}

// TxRunner ejecuta una función dentro de una transacción de almacenamiento, pasando repositorios atados a esa tx.
// Si fn devuelve error nada de lo escrito queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// CommitEvent resumen de un commit confirmado.
type CommitEvent struct {
	AccountID   string
	Operation   string // sale, reversal, adjustment, defect
	Reference   string // id del registro de negocio
	Movements   []*entity.Movement
	Skipped     []string
	Duration    time.Duration
	CommittedAt time.Time
}

// CommitListener recibe notificaciones después de cada commit, fuera de la transacción.
// Un listener nunca puede afectar el resultado del commit.
type CommitListener interface {
	CommitSucceeded(ev CommitEvent)
	CommitFailed(accountID, operation string, err error, d time.Duration)
}
