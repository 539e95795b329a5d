package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// AdjustmentUseCase ajustes manuales a una cantidad absoluta (conteo físico, daño, robo).
type AdjustmentUseCase struct {
	processor *TransactionProcessor
	variants  repository.VariantRepository
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(processor *TransactionProcessor, variants repository.VariantRepository) *AdjustmentUseCase {
	return &AdjustmentUseCase{processor: processor, variants: variants}
}

// AdjustStock lleva la variante a la cantidad objetivo. delta = objetivo - actual.
// El commit exige que la cantidad siga siendo la leída; si cambió falla con domain.ErrStaleState.
// Si el objetivo coincide con la cantidad actual se guarda el ajuste sin movimiento.
func (uc *AdjustmentUseCase) AdjustStock(ctx context.Context, accountID, userID string, in dto.AdjustStockRequest) (*dto.AdjustmentResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	current, err := uc.variants.GetVariant(ctx, accountID, in.SKU)
	if err != nil {
		return nil, err
	}
	target := *in.TargetQuantity
	delta, kind, err := inventory.ClassifyAdjustment(current.Quantity, target, in.Reason)
	if err != nil {
		return nil, err
	}

	adj := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		AccountID:      accountID,
		ProductID:      current.ProductID,
		SKU:            current.SKU,
		QuantityBefore: current.Quantity,
		TargetQuantity: target,
		Reason:         in.Reason,
		CreatedBy:      userID,
	}
	var lines []LineRequest
	if delta != 0 {
		expected := current.Quantity
		lines = append(lines, LineRequest{
			SKU:       current.SKU,
			ProductID: current.ProductID,
			Delta:     delta,
			Kind:      kind,
			Reason:    in.Reason,
			Expected:  &expected,
		})
	}

	res, err := uc.processor.Commit(ctx, CommitRequest{
		AccountID: accountID,
		UserID:    userID,
		Lines:     lines,
		Record:    &adjustmentRecord{adj: adj},
	})
	if err != nil {
		return nil, err
	}
	out := &dto.AdjustmentResponse{
		ID:             adj.ID,
		SKU:            adj.SKU,
		QuantityBefore: adj.QuantityBefore,
		TargetQuantity: adj.TargetQuantity,
		Reason:         adj.Reason,
		CreatedAt:      adj.CreatedAt,
	}
	if len(res.Movements) > 0 {
		mv := toMovementResponse(res.Movements[0])
		out.Movement = &mv
	}
	return out, nil
}
