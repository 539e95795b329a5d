package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// SaleTotals montos calculados de una venta (servicio de dominio).
type SaleTotals struct {
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	CostOfGoodsSold decimal.Decimal
	Profit          decimal.Decimal
}

// ComputeSaleTotals calcula subtotal, descuento, total y utilidad con precios capturados en las líneas.
// Total = Subtotal * (1 - descuento/100), nunca menor que cero.
// Utilidad = Total - CostoDeVentas.
func ComputeSaleTotals(items []entity.SaleItem, discountPercent decimal.Decimal) (SaleTotals, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return SaleTotals{}, fmt.Errorf("%w: descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	subtotal := decimal.Zero
	cogs := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
		cogs = cogs.Add(it.LineCost())
	}
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	total := subtotal.Mul(factor).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return SaleTotals{
		Subtotal:        subtotal.Round(2),
		DiscountAmount:  subtotal.Sub(total).Round(2),
		Total:           total,
		CostOfGoodsSold: cogs.Round(2),
		Profit:          total.Sub(cogs).Round(2),
	}, nil
}
