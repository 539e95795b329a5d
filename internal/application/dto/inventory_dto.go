package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse cantidad actual y precios de una variante.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	CategoryID  string          `json:"category_id,omitempty"`
	SKU         string          `json:"sku"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	SalePrice   decimal.Decimal `json:"sale_price"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	ProductID      string    `json:"product_id"`
	Kind           string    `json:"kind"`
	Quantity       int       `json:"quantity"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         string    `json:"reason"`
	SaleID         string    `json:"sale_id,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// AdjustStockRequest body para POST /api/adjustments: cantidad objetivo absoluta y motivo obligatorio.
type AdjustStockRequest struct {
	SKU            string `json:"sku" validate:"required"`
	TargetQuantity *int   `json:"target_quantity" validate:"required,lte=2147483647"`
	Reason         string `json:"reason" validate:"max=200"`
}

// AdjustmentResponse ajuste registrado. Movement es nil si la cantidad no cambió.
type AdjustmentResponse struct {
	ID             string            `json:"id"`
	SKU            string            `json:"sku"`
	QuantityBefore int               `json:"quantity_before"`
	TargetQuantity int               `json:"target_quantity"`
	Reason         string            `json:"reason"`
	CreatedAt      time.Time         `json:"created_at"`
	Movement       *MovementResponse `json:"movement,omitempty"`
}

// HistoryResponse historial de una variante, más reciente primero.
type HistoryResponse struct {
	SKU       string             `json:"sku"`
	Movements []MovementResponse `json:"movements"`
	HasMore   bool               `json:"has_more"`
}

// ReconciliationResponse comparación entre stock proyectado y libro.
type ReconciliationResponse struct {
	SKU         string `json:"sku"`
	Current     int    `json:"current"`
	Initial     int    `json:"initial"`
	SignedSum   int    `json:"signed_sum"`
	LedgerAfter int    `json:"ledger_after"`
	Movements   int    `json:"movements"`
	ChainGaps   int    `json:"chain_gaps"`
	Consistent  bool   `json:"consistent"`
	QuantityAt  *int   `json:"quantity_at,omitempty"`
}
