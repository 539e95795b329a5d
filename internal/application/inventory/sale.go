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

// SaleUseCase registra ventas y expone su consulta para reportes.
type SaleUseCase struct {
	processor *TransactionProcessor
	sales     repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(processor *TransactionProcessor, sales repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{processor: processor, sales: sales}
}

// RegisterSale descuenta el stock de todas las líneas y crea la venta en una sola transacción.
// Líneas repetidas del mismo SKU se suman en una sola.
func (uc *SaleUseCase) RegisterSale(ctx context.Context, accountID, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	sale := &entity.Sale{
		ID:              uuid.New().String(),
		AccountID:       accountID,
		DiscountPercent: in.DiscountPercent,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   entity.PaymentStatus(in.PaymentStatus),
		CustomerName:    in.CustomerName,
		DueDate:         in.DueDate,
		Notes:           in.Notes,
		CreatedBy:       userID,
	}

	reason := inventory.SaleReason(sale.ShortID())
	qty := make(map[string]int, len(in.Items))
	var order []string
	for _, it := range in.Items {
		if _, seen := qty[it.SKU]; !seen {
			order = append(order, it.SKU)
		}
		qty[it.SKU] += it.Quantity
	}
	lines := make([]LineRequest, 0, len(order))
	for _, sku := range order {
		lines = append(lines, LineRequest{SKU: sku, Delta: -qty[sku], Kind: entity.MovementKindSale, Reason: reason})
	}

	res, err := uc.processor.Commit(ctx, CommitRequest{
		AccountID: accountID,
		UserID:    userID,
		Lines:     lines,
		Record:    &saleRecord{sale: sale},
	})
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(sale)
	out.Movements = toMovementResponses(res.Movements)
	return &out, nil
}

// GetSale devuelve una venta de la cuenta.
func (uc *SaleUseCase) GetSale(ctx context.Context, accountID, saleID string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, accountID, saleID)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(s)
	return &out, nil
}

// ListSales lista ventas, más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, accountID string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.Normalize()
	if err := validator.Validate(page); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	list, err := uc.sales.List(ctx, accountID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, len(list))
	for i, s := range list {
		items[i] = toSaleResponse(s)
	}
	return &dto.SaleListResponse{Items: items, Page: page.Result(len(items))}, nil
}

// MarkReceived registra el cobro de una venta a crédito. No afecta el stock.
func (uc *SaleUseCase) MarkReceived(ctx context.Context, accountID, saleID string) (*dto.SaleResponse, error) {
	if err := uc.sales.MarkReceived(ctx, accountID, saleID); err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, accountID, saleID)
}
