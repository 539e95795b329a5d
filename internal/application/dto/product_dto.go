package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantRequest variante talla/color de un producto nuevo.
type VariantRequest struct {
	SKU       string          `json:"sku" validate:"required,min=1,max=100"`
	Size      string          `json:"size" validate:"max=20"`
	Color     string          `json:"color" validate:"max=40"`
	Quantity  int             `json:"quantity" validate:"gte=0,lte=2147483647"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// CreateProductRequest entrada para crear un producto con sus variantes.
// Quantity es la existencia inicial; después solo cambia mediante movimientos.
type CreateProductRequest struct {
	Name       string           `json:"name" validate:"required,min=1,max=200"`
	CategoryID string           `json:"category_id,omitempty" validate:"max=100"`
	Variants   []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// VariantResponse variante del catálogo.
type VariantResponse struct {
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CategoryID string            `json:"category_id,omitempty"`
	Variants   []VariantResponse `json:"variants"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
