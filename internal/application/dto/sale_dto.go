package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta: SKU y unidades.
type SaleLineRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// RegisterSaleRequest body para POST /api/sales.
// Precio y costo se toman del catálogo al momento de la venta.
type RegisterSaleRequest struct {
	Items           []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	PaymentMethod   string            `json:"payment_method" validate:"required,max=50"`
	PaymentStatus   string            `json:"payment_status" validate:"required,oneof=received receivable"`
	CustomerName    string            `json:"customer_name,omitempty" validate:"required_if=PaymentStatus receivable,max=120"`
	DueDate         *time.Time        `json:"due_date,omitempty" validate:"required_if=PaymentStatus receivable"`
	Notes           string            `json:"notes,omitempty" validate:"max=500"`
}

// SaleItemResponse línea de venta con precios capturados.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID              string             `json:"id"`
	Items           []SaleItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	Total           decimal.Decimal    `json:"total"`
	CostOfGoodsSold decimal.Decimal    `json:"cost_of_goods_sold"`
	Profit          decimal.Decimal    `json:"profit"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentStatus   string             `json:"payment_status"`
	CustomerName    string             `json:"customer_name,omitempty"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Status          string             `json:"status"`
	ReversedAt      *time.Time         `json:"reversed_at,omitempty"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	Movements       []MovementResponse `json:"movements,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ReversalResponse resultado de revertir una venta.
// Warnings lista las líneas que no se pudieron restaurar porque la variante ya no existe.
type ReversalResponse struct {
	Sale      SaleResponse       `json:"sale"`
	Movements []MovementResponse `json:"movements"`
	Warnings  []string           `json:"warnings,omitempty"`
}
