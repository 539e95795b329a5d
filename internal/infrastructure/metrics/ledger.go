package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ inventory.CommitListener = (*LedgerMetrics)(nil)

// Resultados de un commit.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeStale     = "stale"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// LedgerMetrics exporta contadores del procesador de transacciones.
type LedgerMetrics struct {
	commits   *prometheus.CounterVec
	movements *prometheus.CounterVec
	skipped   prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewLedgerMetrics registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_commits_total",
			Help: "Commits de stock por operación y resultado",
		}, []string{"operation", "outcome"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "Movimientos agregados al libro por tipo",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_skipped_lines_total",
			Help: "Líneas de reversión omitidas porque la variante ya no existe",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_commit_duration_seconds",
			Help:    "Duración de cada commit, incluidos los rechazados",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.commits, m.movements, m.skipped, m.duration)
	return m
}

func (m *LedgerMetrics) CommitSucceeded(ev inventory.CommitEvent) {
	m.commits.WithLabelValues(ev.Operation, OutcomeCommitted).Inc()
	m.duration.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	for _, mv := range ev.Movements {
		m.movements.WithLabelValues(string(mv.Kind)).Inc()
	}
	m.skipped.Add(float64(len(ev.Skipped)))
}

func (m *LedgerMetrics) CommitFailed(_, operation string, err error, d time.Duration) {
	m.commits.WithLabelValues(operation, outcomeOf(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrStaleState):
		return OutcomeStale
	case errors.Is(err, domain.ErrTransientStorage):
		return OutcomeTransient
	case inventory.IsBusinessRejection(err):
		return OutcomeRejected
	}
	return OutcomeError
}
