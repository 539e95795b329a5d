package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con sus variantes (talla/color).
// El catálogo es dueño de todos los campos salvo Variant.Quantity, que solo muta el motor de inventario.
type Product struct {
	ID         string
	AccountID  string
	Name       string
	CategoryID string
	Variants   []Variant // orden definido por el catálogo
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MaxQuantity tope de existencia por variante (columna INTEGER).
const MaxQuantity = math.MaxInt32

// Variant combinación talla/color; unidad de control de stock.
type Variant struct {
	SKU       string // único por cuenta
	Size      string
	Color     string
	Quantity  int // siempre >= 0
	UnitCost  decimal.Decimal
	SalePrice decimal.Decimal
}

// VariantIndex devuelve la posición de la variante con ese SKU o -1.
func (p Product) VariantIndex(sku string) int {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return i
		}
	}
	return -1
}

// WithQuantity devuelve una copia del producto con la cantidad de la variante reemplazada.
// El producto original no se modifica.
func (p Product) WithQuantity(sku string, quantity int) Product {
	variants := make([]Variant, len(p.Variants))
	copy(variants, p.Variants)
	for i := range variants {
		if variants[i].SKU == sku {
			variants[i].Quantity = quantity
		}
	}
	p.Variants = variants
	return p
}

// StockItem vista aplanada de una variante con los datos de su producto padre.
type StockItem struct {
	ProductID   string
	ProductName string
	CategoryID  string
	Variant
}
