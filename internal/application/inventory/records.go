package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// Operaciones de negocio que producen commits.
const (
	OperationSale       = "sale"
	OperationReversal   = "reversal"
	OperationAdjustment = "adjustment"
	OperationDefect     = "defect"
	OperationMovement   = "movement"
)

// Record registro de negocio que se guarda en la misma transacción que los movimientos.
// Solo este paquete construye registros: venta, ajuste, defecto y reversión.
type Record interface {
	operation() string
	reference() string
	// prepare completa el registro con el snapshot y el plan validado, antes de la tx.
	prepare(snap inventory.Snapshot, plan []inventory.PlannedLine, now time.Time) error
	// decorate ajusta cada movimiento (referencia a la venta).
	decorate(m *entity.Movement)
	// persist escribe el registro dentro de la tx.
	persist(ctx context.Context, repos TxRepositories, movements []*entity.Movement) error
}

func operationOf(r Record) string {
	if r == nil {
		return OperationMovement
	}
	return r.operation()
}

// saleRecord captura precio y costo de cada línea al momento de la venta.
type saleRecord struct {
	sale *entity.Sale
}

func (r *saleRecord) operation() string { return OperationSale }
func (r *saleRecord) reference() string { return r.sale.ID }

func (r *saleRecord) prepare(snap inventory.Snapshot, plan []inventory.PlannedLine, now time.Time) error {
	s := r.sale
	if s.PaymentStatus == entity.PaymentStatusReceivable {
		if strings.TrimSpace(s.CustomerName) == "" || s.DueDate == nil {
			return fmt.Errorf("%w: venta a crédito requiere cliente y fecha de vencimiento", domain.ErrInvalidInput)
		}
	} else if s.PaymentStatus != entity.PaymentStatusReceived {
		return fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, s.PaymentStatus)
	}
	if len(plan) == 0 {
		return fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}

	items := make([]entity.SaleItem, 0, len(plan))
	for _, pl := range plan {
		v := snap[pl.Item.SKU]
		items = append(items, entity.SaleItem{
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			SKU:         v.SKU,
			Size:        v.Size,
			Color:       v.Color,
			Quantity:    -pl.Delta,
			UnitPrice:   v.SalePrice,
			UnitCost:    v.UnitCost,
		})
	}
	totals, err := inventory.ComputeSaleTotals(items, s.DiscountPercent)
	if err != nil {
		return err
	}
	s.Items = items
	s.Subtotal = totals.Subtotal
	s.DiscountAmount = totals.DiscountAmount
	s.Total = totals.Total
	s.CostOfGoodsSold = totals.CostOfGoodsSold
	s.Profit = totals.Profit
	s.Status = entity.SaleStatusActive
	s.CreatedAt = now
	return nil
}

func (r *saleRecord) decorate(m *entity.Movement) { m.SaleID = r.sale.ID }

func (r *saleRecord) persist(ctx context.Context, repos TxRepositories, _ []*entity.Movement) error {
	return repos.Sales.Create(ctx, r.sale)
}

// reversalRecord cambia el estado de la venta dentro de la misma tx que restaura el stock.
type reversalRecord struct {
	saleID    string
	accountID string
	at        time.Time
}

func (r *reversalRecord) operation() string { return OperationReversal }
func (r *reversalRecord) reference() string { return r.saleID }

func (r *reversalRecord) prepare(_ inventory.Snapshot, _ []inventory.PlannedLine, now time.Time) error {
	r.at = now
	return nil
}

func (r *reversalRecord) decorate(m *entity.Movement) { m.SaleID = r.saleID }

func (r *reversalRecord) persist(ctx context.Context, repos TxRepositories, _ []*entity.Movement) error {
	return repos.Sales.MarkReversed(ctx, r.accountID, r.saleID, r.at)
}

// adjustmentRecord ajuste manual; sin movimiento cuando la cantidad no cambia.
type adjustmentRecord struct {
	adj *entity.StockAdjustment
}

func (r *adjustmentRecord) operation() string { return OperationAdjustment }
func (r *adjustmentRecord) reference() string { return r.adj.ID }

func (r *adjustmentRecord) prepare(_ inventory.Snapshot, _ []inventory.PlannedLine, now time.Time) error {
	r.adj.CreatedAt = now
	return nil
}

func (r *adjustmentRecord) decorate(*entity.Movement) {}

func (r *adjustmentRecord) persist(ctx context.Context, repos TxRepositories, movements []*entity.Movement) error {
	if len(movements) > 0 {
		r.adj.MovementID = movements[0].ID
	}
	return repos.Adjustments.Create(ctx, r.adj)
}

// defectRecord baja de una unidad ligada a un DefectiveItem pendiente.
type defectRecord struct {
	item *entity.DefectiveItem
}

func (r *defectRecord) operation() string { return OperationDefect }
func (r *defectRecord) reference() string { return r.item.ID }

func (r *defectRecord) prepare(snap inventory.Snapshot, plan []inventory.PlannedLine, now time.Time) error {
	if len(plan) != 1 || plan[0].Delta != -1 {
		return fmt.Errorf("%w: un defecto descuenta exactamente una unidad", domain.ErrInvalidInput)
	}
	item := snap[plan[0].Item.SKU]
	item.Quantity = plan[0].After
	r.item.Item = item
	r.item.Status = entity.DefectStatusPending
	r.item.RegisteredAt = now
	return nil
}

func (r *defectRecord) decorate(*entity.Movement) {}

func (r *defectRecord) persist(ctx context.Context, repos TxRepositories, movements []*entity.Movement) error {
	r.item.MovementID = movements[0].ID
	return repos.Defects.Create(ctx, r.item)
}
