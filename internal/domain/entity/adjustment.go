package entity

import "time"

// StockAdjustment registro de negocio de un ajuste manual (conteo físico, daño, etc.).
type StockAdjustment struct {
	ID             string
	AccountID      string
	ProductID      string
	SKU            string
	QuantityBefore int
	TargetQuantity int
	Reason         string
	MovementID     string // vacío cuando el ajuste confirma la cantidad sin cambiarla
	CreatedBy      string
	CreatedAt      time.Time
}

// Delta diferencia con signo aplicada.
func (a *StockAdjustment) Delta() int {
	return a.TargetQuantity - a.QuantityBefore
}
