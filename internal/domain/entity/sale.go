package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus ciclo de vida de una venta: active -> reversed (terminal).
type SaleStatus string

const (
	SaleStatusActive   SaleStatus = "active"
	SaleStatusReversed SaleStatus = "reversed"
)

// PaymentStatus estado del cobro.
type PaymentStatus string

const (
	PaymentStatusReceived   PaymentStatus = "received"
	PaymentStatusReceivable PaymentStatus = "receivable"
)

// Valid indica si el estado de pago es conocido.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusReceived || s == PaymentStatusReceivable
}

// Sale venta registrada por el procesador de transacciones.
// Precio y costo de cada línea se capturan al momento de la venta y no cambian después.
type Sale struct {
	ID              string
	AccountID       string
	Items           []SaleItem
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	CostOfGoodsSold decimal.Decimal
	Profit          decimal.Decimal
	PaymentMethod   string
	PaymentStatus   PaymentStatus
	CustomerName    string     // obligatorio si PaymentStatus = receivable
	DueDate         *time.Time // obligatorio si PaymentStatus = receivable
	Notes           string
	Status          SaleStatus
	ReversedAt      *time.Time
	CreatedBy       string
	CreatedAt       time.Time
}

// SaleItem línea de venta.
type SaleItem struct {
	ProductID   string
	ProductName string
	SKU         string
	Size        string
	Color       string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
}

// LineTotal precio * cantidad.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost costo * cantidad.
func (i SaleItem) LineCost() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsActive indica si la venta aún puede revertirse.
func (s *Sale) IsActive() bool {
	return s.Status == SaleStatusActive
}

// ShortID primeros 8 caracteres del ID, usado en motivos de movimiento y recibos.
func (s *Sale) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}
