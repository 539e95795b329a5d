package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.CommitListener = (*Publisher)(nil)

// MessageWriter subconjunto de *kafka.Writer que usa el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter writer para varios tópicos; la clave (cuenta/SKU) fija la partición
// y conserva el orden de los movimientos de cada variante.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// Config parámetros del publicador.
type Config struct {
	TopicPrefix       string
	LowStockThreshold int
	BufferSize        int
	WriteTimeout      time.Duration
}

// Publisher publica en Kafka los movimientos de cada commit confirmado.
// El envío es asíncrono: un commit nunca espera al broker y, con la cola llena,
// los eventos se descartan con un warning.
type Publisher struct {
	w     MessageWriter
	cfg   Config
	log   *logger.Logger
	queue chan []kafka.Message
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewPublisher arranca el publicador. Close vacía la cola y cierra el writer.
func NewPublisher(w MessageWriter, cfg Config, log *logger.Logger) *Publisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	p := &Publisher{
		w:     w,
		cfg:   cfg,
		log:   log.Component("events"),
		queue: make(chan []kafka.Message, cfg.BufferSize),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Topic nombre completo del tópico para un tipo de evento.
func (p *Publisher) Topic(eventType string) string {
	if p.cfg.TopicPrefix == "" {
		return eventType
	}
	return p.cfg.TopicPrefix + "." + eventType
}

func (p *Publisher) CommitSucceeded(ev inventory.CommitEvent) {
	msgs, err := p.messages(ev)
	if err != nil {
		p.log.Error().Err(err).Str("reference", ev.Reference).Msg("serializar eventos")
		return
	}
	if len(msgs) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- msgs:
	default:
		p.log.Warn().
			Str("account_id", ev.AccountID).
			Str("reference", ev.Reference).
			Int("events", len(msgs)).
			Msg("cola de eventos llena, se descartan")
	}
}

// CommitFailed los rechazos no generan eventos.
func (p *Publisher) CommitFailed(string, string, error, time.Duration) {}

// Close deja de aceptar eventos, publica los pendientes y cierra el writer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.w.Close()
}

func (p *Publisher) run() {
	defer close(p.done)
	for msgs := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
		if err := p.w.WriteMessages(ctx, msgs...); err != nil {
			p.log.Error().Err(err).Int("events", len(msgs)).Msg("publicar eventos")
		}
		cancel()
	}
}

func (p *Publisher) messages(ev inventory.CommitEvent) ([]kafka.Message, error) {
	var out []kafka.Message
	for _, m := range ev.Movements {
		recorded, err := NewEvent(EventMovementRecorded, ev.AccountID, m.SKU, m.CreatedAt, MovementRecordedData{
			MovementID:     m.ID,
			SKU:            m.SKU,
			ProductID:      m.ProductID,
			Kind:           string(m.Kind),
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reason:         m.Reason,
			SaleID:         m.SaleID,
			Operation:      ev.Operation,
			Reference:      ev.Reference,
			CreatedBy:      m.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		msg, err := p.message(recorded)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)

		t := p.cfg.LowStockThreshold
		if t > 0 && m.QuantityBefore >= t && m.QuantityAfter < t {
			low, err := NewEvent(EventLowStock, ev.AccountID, m.SKU, m.CreatedAt, LowStockData{
				SKU:       m.SKU,
				ProductID: m.ProductID,
				Quantity:  m.QuantityAfter,
				Threshold: t,
			})
			if err != nil {
				return nil, err
			}
			msg, err := p.message(low)
			if err != nil {
				return nil, err
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

func (p *Publisher) message(e *Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Topic: p.Topic(e.EventType),
		Key:   []byte(e.AccountID + "/" + e.AggregateID),
		Value: value,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "source", Value: []byte(e.Source)},
			{Key: "account_id", Value: []byte(e.AccountID)},
		},
	}, nil
}
