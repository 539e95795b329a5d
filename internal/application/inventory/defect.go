package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// DefectUseCase flujo de unidades defectuosas: baja de stock y archivo posterior.
type DefectUseCase struct {
	processor *TransactionProcessor
	defects   repository.DefectiveItemRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewDefectUseCase construye el caso de uso.
func NewDefectUseCase(processor *TransactionProcessor, defects repository.DefectiveItemRepository, log *logger.Logger) *DefectUseCase {
	return &DefectUseCase{
		processor: processor,
		defects:   defects,
		log:       log.Component("defects"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterDefect da de baja exactamente una unidad y crea el registro pendiente en la misma transacción.
func (uc *DefectUseCase) RegisterDefect(ctx context.Context, accountID, userID string, in dto.RegisterDefectRequest) (*dto.DefectResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	item := &entity.DefectiveItem{
		ID:              uuid.New().String(),
		AccountID:       accountID,
		Description:     in.Description,
		SuggestedAction: in.SuggestedAction,
		CreatedBy:       userID,
	}
	res, err := uc.processor.Commit(ctx, CommitRequest{
		AccountID: accountID,
		UserID:    userID,
		Lines: []LineRequest{{
			SKU:    in.SKU,
			Delta:  -1,
			Kind:   entity.MovementKindDefectWriteOff,
			Reason: inventory.DefectReason(in.Description),
		}},
		Record: &defectRecord{item: item},
	})
	if err != nil {
		return nil, err
	}
	out := toDefectResponse(item)
	mv := toMovementResponse(res.Movements[0])
	out.Movement = &mv
	return &out, nil
}

// ResolveDefect archiva el registro (pending -> resolved). No toca el stock.
func (uc *DefectUseCase) ResolveDefect(ctx context.Context, accountID, defectID string) (*dto.DefectResponse, error) {
	if err := uc.defects.Resolve(ctx, accountID, defectID, uc.now()); err != nil {
		return nil, err
	}
	d, err := uc.defects.GetByID(ctx, accountID, defectID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", accountID).Str("defect_id", defectID).Msg("defecto resuelto")
	out := toDefectResponse(d)
	return &out, nil
}

// ListDefects lista por estado; status vacío lista todos.
func (uc *DefectUseCase) ListDefects(ctx context.Context, accountID, status string) ([]dto.DefectResponse, error) {
	st := entity.DefectStatus(status)
	if st != "" && st != entity.DefectStatusPending && st != entity.DefectStatusResolved {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	list, err := uc.defects.ListByStatus(ctx, accountID, st)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DefectResponse, len(list))
	for i, d := range list {
		out[i] = toDefectResponse(d)
	}
	return out, nil
}
