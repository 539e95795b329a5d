package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrStaleState la cantidad leída ya no coincide con la almacenada; releer y reintentar.
	ErrStaleState = errors.New("estado desactualizado, vuelva a leer e intente de nuevo")
	// ErrInvalidAdjustment ajuste sin motivo o con cantidad objetivo inválida.
	ErrInvalidAdjustment = errors.New("ajuste de inventario inválido")
	// ErrAlreadyReversed la venta ya fue revertida.
	ErrAlreadyReversed = errors.New("la venta ya fue revertida")
	// ErrTransientStorage almacenamiento no disponible o timeout; sin efectos parciales, reintentable.
	ErrTransientStorage = errors.New("almacenamiento no disponible temporalmente")
)

// IsRetryable indica si el caller puede releer y reintentar la operación completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStaleState) || errors.Is(err, ErrTransientStorage)
}

// StockError detalle de una línea rechazada por stock insuficiente.
type StockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: sku %s solicitado %d, disponible %d", ErrInsufficientStock, e.SKU, e.Requested, e.Available)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }
