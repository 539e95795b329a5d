package entity

import "time"

// DefectStatus pending -> resolved (terminal).
type DefectStatus string

const (
	DefectStatusPending  DefectStatus = "pending"
	DefectStatusResolved DefectStatus = "resolved"
)

// DefectiveItem unidad dada de baja por defecto. Resolverla archiva el registro sin tocar el stock.
type DefectiveItem struct {
	ID              string
	AccountID       string
	Item            StockItem // copia de la variante al momento del registro
	Description     string
	SuggestedAction string
	MovementID      string
	Status          DefectStatus
	RegisteredAt    time.Time
	ResolvedAt      *time.Time
	CreatedBy       string
}
