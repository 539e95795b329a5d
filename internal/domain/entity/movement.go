package entity

import "time"

// MovementKind causa de un movimiento de stock.
type MovementKind string

// Tipos de movimiento del libro de inventario.
const (
	MovementKindSale           MovementKind = "sale"
	MovementKindReversal       MovementKind = "reversal"
	MovementKindManualIncrease MovementKind = "manual-increase"
	MovementKindManualDecrease MovementKind = "manual-decrease"
	MovementKindDefectWriteOff MovementKind = "defect-writeoff"
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k.Sign() != 0
}

// Sign +1 para tipos que suman stock, -1 para los que restan, 0 si el tipo es desconocido.
func (k MovementKind) Sign() int {
	switch k {
	case MovementKindReversal, MovementKindManualIncrease:
		return 1
	case MovementKindSale, MovementKindManualDecrease, MovementKindDefectWriteOff:
		return -1
	}
	return 0
}

// Movement entrada inmutable del libro de movimientos. Se crea una vez y nunca se actualiza.
type Movement struct {
	ID             string
	Seq            int64 // orden global de inserción asignado por el almacenamiento
	AccountID      string
	ProductID      string
	SKU            string
	Kind           MovementKind
	Quantity       int // valor absoluto; el signo lo da Kind
	QuantityBefore int
	QuantityAfter  int
	Reason         string
	SaleID         string // venta de origen (ventas y reversiones), vacío si no aplica
	CreatedBy      string
	CreatedAt      time.Time
}

// SignedDelta cantidad con signo aplicada al stock.
func (m *Movement) SignedDelta() int {
	return m.Kind.Sign() * m.Quantity
}
