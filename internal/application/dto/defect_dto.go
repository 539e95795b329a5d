package dto

import "time"

// RegisterDefectRequest body para POST /api/defects. Da de baja exactamente una unidad.
type RegisterDefectRequest struct {
	SKU             string `json:"sku" validate:"required"`
	Description     string `json:"description" validate:"required,max=500"`
	SuggestedAction string `json:"suggested_action,omitempty" validate:"max=200"`
}

// DefectResponse unidad defectuosa registrada.
type DefectResponse struct {
	ID              string            `json:"id"`
	Item            StockResponse     `json:"item"`
	Description     string            `json:"description"`
	SuggestedAction string            `json:"suggested_action,omitempty"`
	Status          string            `json:"status"`
	RegisteredAt    time.Time         `json:"registered_at"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	Movement        *MovementResponse `json:"movement,omitempty"`
}
