package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// LineRequest línea de un commit de stock.
type LineRequest struct {
	SKU       string
	ProductID string // opcional: si la variante pertenece ahora a otro producto se trata como inexistente
	Delta     int    // con signo; debe coincidir con Kind
	Kind      entity.MovementKind
	Reason    string
	Expected  *int // opcional: cantidad que el caller leyó; si cambió el commit falla con ErrStaleState
}

// CommitRequest transacción de stock multilínea más el registro de negocio asociado.
type CommitRequest struct {
	AccountID   string
	UserID      string
	Lines       []LineRequest
	Record      Record
	SkipMissing bool // omitir líneas cuya variante ya no existe (reversiones)
}

// CommitResult movimientos creados y SKUs omitidos.
type CommitResult struct {
	Movements   []*entity.Movement
	Skipped     []string
	CommittedAt time.Time
}

// TransactionProcessor punto de entrada único para toda operación que cambia stock.
// Actualiza variantes, agrega movimientos y guarda el registro de negocio en una sola transacción.
type TransactionProcessor struct {
	txRunner  TxRunner
	variants  repository.VariantRepository
	listeners []CommitListener
	now       func() time.Time
	timeout   time.Duration
}

// NewTransactionProcessor construye el procesador. variants se usa para el snapshot previo a la tx.
func NewTransactionProcessor(txRunner TxRunner, variants repository.VariantRepository, listeners ...CommitListener) *TransactionProcessor {
	return &TransactionProcessor{
		txRunner:  txRunner,
		variants:  variants,
		listeners: listeners,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (pruebas de reconstrucción histórica).
func (p *TransactionProcessor) WithClock(now func() time.Time) *TransactionProcessor {
	p.now = now
	return p
}

// WithCommitTimeout limita la duración de cada commit; al vencer falla con domain.ErrTransientStorage.
func (p *TransactionProcessor) WithCommitTimeout(d time.Duration) *TransactionProcessor {
	p.timeout = d
	return p
}

// Commit valida las líneas contra un snapshot y confirma todo o nada.
//
// Errores:
//   - domain.ErrInvalidInput      líneas mal formadas.
//   - domain.ErrNotFound          alguna variante no existe (salvo SkipMissing).
//   - domain.ErrInsufficientStock alguna línea dejaría stock negativo (*domain.StockError).
//   - domain.ErrStaleState        la cantidad cambió entre la lectura y la escritura.
//   - domain.ErrTransientStorage  almacenamiento no disponible o timeout.
func (p *TransactionProcessor) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	start := time.Now()
	op := operationOf(req.Record)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	res, err := p.commit(ctx, req)
	if err != nil {
		err = classify(err)
		for _, l := range p.listeners {
			l.CommitFailed(req.AccountID, op, err, time.Since(start))
		}
		return nil, err
	}
	ev := CommitEvent{
		AccountID:   req.AccountID,
		Operation:   op,
		Movements:   res.Movements,
		Skipped:     res.Skipped,
		Duration:    time.Since(start),
		CommittedAt: res.CommittedAt,
	}
	if req.Record != nil {
		ev.Reference = req.Record.reference()
	}
	for _, l := range p.listeners {
		l.CommitSucceeded(ev)
	}
	return res, nil
}

func (p *TransactionProcessor) commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if req.AccountID == "" {
		return nil, fmt.Errorf("%w: cuenta requerida", domain.ErrInvalidInput)
	}
	if len(req.Lines) == 0 && req.Record == nil {
		return nil, fmt.Errorf("%w: la transacción no tiene líneas", domain.ErrInvalidInput)
	}

	// 1) Snapshot de cada variante referenciada (fuera de la tx, solo lectura)
	snap := make(inventory.Snapshot, len(req.Lines))
	var skipped []string
	missing := make(map[string]bool)
	lines := make([]inventory.Line, 0, len(req.Lines))
	for _, lr := range req.Lines {
		l := inventory.Line{SKU: lr.SKU, Delta: lr.Delta, Kind: lr.Kind, Reason: lr.Reason}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if missing[lr.SKU] {
			continue
		}
		item, ok := snap[lr.SKU]
		if !ok {
			got, err := p.variants.GetVariant(ctx, req.AccountID, lr.SKU)
			if errors.Is(err, domain.ErrNotFound) && req.SkipMissing {
				missing[lr.SKU] = true
				skipped = append(skipped, lr.SKU)
				continue
			}
			if err != nil {
				return nil, err
			}
			item = *got
			snap[lr.SKU] = item
		}
		if lr.ProductID != "" && lr.ProductID != item.ProductID {
			if req.SkipMissing {
				missing[lr.SKU] = true
				skipped = append(skipped, lr.SKU)
				continue
			}
			return nil, fmt.Errorf("%w: variante %s del producto %s", domain.ErrNotFound, lr.SKU, lr.ProductID)
		}
		if lr.Expected != nil && *lr.Expected != item.Quantity {
			return nil, fmt.Errorf("%w: sku %s esperado %d, actual %d", domain.ErrStaleState, lr.SKU, *lr.Expected, item.Quantity)
		}
		lines = append(lines, l)
	}

	// 2) Validar todas las líneas contra el snapshot
	plan, err := inventory.Plan(snap, lines)
	if err != nil {
		return nil, err
	}

	now := p.now()
	if req.Record != nil {
		if err := req.Record.prepare(snap, plan, now); err != nil {
			return nil, err
		}
	}

	movements := make([]*entity.Movement, len(plan))
	for i, pl := range plan {
		qty := pl.Delta
		if qty < 0 {
			qty = -qty
		}
		m := &entity.Movement{
			ID:             uuid.New().String(),
			AccountID:      req.AccountID,
			ProductID:      pl.Item.ProductID,
			SKU:            pl.Item.SKU,
			Kind:           pl.Kind,
			Quantity:       qty,
			QuantityBefore: pl.Before,
			QuantityAfter:  pl.After,
			Reason:         pl.Reason,
			CreatedBy:      req.UserID,
			CreatedAt:      now,
		}
		if req.Record != nil {
			req.Record.decorate(m)
		}
		movements[i] = m
	}

	// 3) Escritura atómica: variantes condicionadas al snapshot, movimientos y registro
	err = p.txRunner.Run(ctx, func(repos TxRepositories) error {
		for _, m := range movements {
			got, err := repos.Variants.ApplyDelta(ctx, req.AccountID, m.ProductID, m.SKU, m.SignedDelta(), m.QuantityBefore)
			if err != nil {
				return err
			}
			if got != m.QuantityAfter {
				return fmt.Errorf("%w: sku %s quedó en %d, se esperaba %d", domain.ErrStaleState, m.SKU, got, m.QuantityAfter)
			}
			if err := repos.Movements.Append(ctx, m); err != nil {
				return err
			}
		}
		if req.Record != nil {
			return req.Record.persist(ctx, repos, movements)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CommitResult{Movements: movements, Skipped: skipped, CommittedAt: now}, nil
}

// classify convierte cancelaciones y timeouts en ErrTransientStorage.
func classify(err error) error {
	if errors.Is(err, domain.ErrTransientStorage) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrTransientStorage, err)
	}
	return err
}

// IsBusinessRejection indica errores detectados antes de escribir (no reintentables).
func IsBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidAdjustment) ||
		errors.Is(err, domain.ErrAlreadyReversed) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrConflict)
}

// LogListener registra cada commit en el log estructurado.
type LogListener struct {
	log *logger.Logger
}

// NewLogListener construye el listener de log.
func NewLogListener(log *logger.Logger) *LogListener {
	return &LogListener{log: log.Component("ledger")}
}

func (l *LogListener) CommitSucceeded(ev CommitEvent) {
	ids := make([]string, len(ev.Movements))
	for i, m := range ev.Movements {
		ids[i] = m.ID
	}
	e := l.log.Info().
		Str("account_id", ev.AccountID).
		Str("kind", ev.Operation).
		Str("reference", ev.Reference).
		Int("lines", len(ev.Movements)).
		Strs("movement_ids", ids).
		Dur("duration", ev.Duration)
	if len(ev.Skipped) > 0 {
		e = e.Strs("skipped", ev.Skipped)
	}
	e.Msg("commit confirmado")
}

func (l *LogListener) CommitFailed(accountID, operation string, err error, d time.Duration) {
	e := l.log.Error()
	switch {
	case IsBusinessRejection(err):
		e = l.log.Warn()
	case errors.Is(err, domain.ErrStaleState):
		e = l.log.Info()
	}
	e.Err(err).Str("account_id", accountID).Str("kind", operation).Dur("duration", d).Msg("commit rechazado")
}
