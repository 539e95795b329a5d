package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReversalProcessor revierte una venta exactamente una vez.
type ReversalProcessor struct {
	processor *TransactionProcessor
	sales     repository.SaleRepository
}

// NewReversalProcessor construye el procesador de reversiones.
func NewReversalProcessor(processor *TransactionProcessor, sales repository.SaleRepository) *ReversalProcessor {
	return &ReversalProcessor{processor: processor, sales: sales}
}

// ReverseSale devuelve al stock exactamente las unidades vendidas y marca la venta como revertida,
// todo en la misma transacción. El estado de la venta es la única fuente de verdad:
// una venta ya revertida falla con domain.ErrAlreadyReversed, también si otra reversión gana la carrera.
// Las líneas cuya variante ya no existe se omiten y se informan como advertencias.
func (rp *ReversalProcessor) ReverseSale(ctx context.Context, accountID, userID, saleID string) (*dto.ReversalResponse, error) {
	sale, err := rp.sales.GetByID(ctx, accountID, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsActive() {
		return nil, domain.ErrAlreadyReversed
	}

	reason := inventory.ReversalReason(sale.ShortID())
	lines := make([]LineRequest, 0, len(sale.Items))
	for _, it := range sale.Items {
		lines = append(lines, LineRequest{
			SKU:       it.SKU,
			ProductID: it.ProductID,
			Delta:     it.Quantity,
			Kind:      entity.MovementKindReversal,
			Reason:    reason,
		})
	}

	res, err := rp.processor.Commit(ctx, CommitRequest{
		AccountID:   accountID,
		UserID:      userID,
		Lines:       lines,
		Record:      &reversalRecord{saleID: sale.ID, accountID: accountID},
		SkipMissing: true,
	})
	if err != nil {
		return nil, err
	}

	at := res.CommittedAt
	sale.Status = entity.SaleStatusReversed
	sale.ReversedAt = &at
	out := &dto.ReversalResponse{
		Sale:      toSaleResponse(sale),
		Movements: toMovementResponses(res.Movements),
	}
	for _, sku := range res.Skipped {
		out.Warnings = append(out.Warnings, fmt.Sprintf("la variante %s ya no existe; su stock no se restauró", sku))
	}
	return out, nil
}
