package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db       Beginner
	pageSize int
}

// NewTxRunner construye el runner con el pool (o un mock que implemente Begin).
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db, pageSize: defaultPageSize}
}

// WithPageSize tamaño de página del historial para repositorios creados dentro de la tx.
func (r *TxRunner) WithPageSize(n int) *TxRunner {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapErr("iniciar transacción", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepositories{
		Variants:    NewVariantRepository(tx),
		Movements:   NewMovementRepository(tx).WithPageSize(r.pageSize),
		Sales:       NewSaleRepository(tx),
		Adjustments: NewAdjustmentRepository(tx),
		Defects:     NewDefectiveItemRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("confirmar transacción", err)
	}
	return nil
}
