package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tipos de evento publicados por el libro de movimientos.
const (
	EventMovementRecorded = "ledger.movement_recorded"
	EventLowStock         = "ledger.low_stock"
)

// AggregateTypeVariant los eventos se agrupan por variante (SKU).
const AggregateTypeVariant = "variant"

// Source identifica a este servicio como origen de los eventos.
const Source = "stock-ledger"

// Event sobre estándar de los mensajes publicados.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	AccountID     string            `json:"account_id"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent construye un evento de variante con ID nuevo.
func NewEvent(eventType, accountID, sku string, at time.Time, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		AggregateID:   sku,
		AggregateType: AggregateTypeVariant,
		AccountID:     accountID,
		Version:       1,
		Timestamp:     at,
		Source:        Source,
		Data:          raw,
	}, nil
}

// MovementRecordedData carga de ledger.movement_recorded.
type MovementRecordedData struct {
	MovementID     string `json:"movement_id"`
	SKU            string `json:"sku"`
	ProductID      string `json:"product_id"`
	Kind           string `json:"kind"`
	Quantity       int    `json:"quantity"`
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
	Reason         string `json:"reason"`
	SaleID         string `json:"sale_id,omitempty"`
	Operation      string `json:"operation"`
	Reference      string `json:"reference,omitempty"`
	CreatedBy      string `json:"created_by"`
}

// LowStockData carga de ledger.low_stock: la variante bajó del umbral en este movimiento.
type LowStockData struct {
	SKU       string `json:"sku"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}
