package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func toStockResponse(it *entity.StockItem) dto.StockResponse {
	return dto.StockResponse{
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		CategoryID:  it.CategoryID,
		SKU:         it.SKU,
		Size:        it.Size,
		Color:       it.Color,
		Quantity:    it.Quantity,
		UnitCost:    it.UnitCost,
		SalePrice:   it.SalePrice,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		SKU:            m.SKU,
		ProductID:      m.ProductID,
		Kind:           string(m.Kind),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		SaleID:         m.SaleID,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovementResponses(ms []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = toMovementResponse(m)
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = dto.SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			LineTotal:   it.LineTotal(),
		}
	}
	return dto.SaleResponse{
		ID:              s.ID,
		Items:           items,
		Subtotal:        s.Subtotal,
		DiscountPercent: s.DiscountPercent,
		DiscountAmount:  s.DiscountAmount,
		Total:           s.Total,
		CostOfGoodsSold: s.CostOfGoodsSold,
		Profit:          s.Profit,
		PaymentMethod:   s.PaymentMethod,
		PaymentStatus:   string(s.PaymentStatus),
		CustomerName:    s.CustomerName,
		DueDate:         s.DueDate,
		Notes:           s.Notes,
		Status:          string(s.Status),
		ReversedAt:      s.ReversedAt,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
}

func toDefectResponse(d *entity.DefectiveItem) dto.DefectResponse {
	return dto.DefectResponse{
		ID:              d.ID,
		Item:            toStockResponse(&d.Item),
		Description:     d.Description,
		SuggestedAction: d.SuggestedAction,
		Status:          string(d.Status),
		RegisteredAt:    d.RegisteredAt,
		ResolvedAt:      d.ResolvedAt,
	}
}
