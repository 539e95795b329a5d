package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// counterValue busca el valor de un contador con las etiquetas dadas.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok {
			if v != lp.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestLedgerMetrics_CommitSucceeded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.CommitSucceeded(inventory.CommitEvent{
		AccountID: "acct-1",
		Operation: inventory.OperationReversal,
		Movements: []*entity.Movement{
			{Kind: entity.MovementKindReversal, Quantity: 2},
			{Kind: entity.MovementKindReversal, Quantity: 1},
		},
		Skipped:  []string{"A-M-BLUE"},
		Duration: 3 * time.Millisecond,
	})

	assert.Equal(t, 1.0, counterValue(t, reg, "ledger_commits_total", map[string]string{"operation": "reversal", "outcome": OutcomeCommitted}))
	assert.Equal(t, 2.0, counterValue(t, reg, "ledger_movements_total", map[string]string{"kind": "reversal"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "ledger_skipped_lines_total", nil))
}

func TestLedgerMetrics_CommitFailedOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.CommitFailed("acct-1", inventory.OperationSale, &domain.StockError{SKU: "A-P-RED", Requested: 5, Available: 2}, time.Millisecond)
	m.CommitFailed("acct-1", inventory.OperationSale, fmt.Errorf("%w: sku A-P-RED", domain.ErrStaleState), time.Millisecond)
	m.CommitFailed("acct-1", inventory.OperationSale, fmt.Errorf("%w: timeout", domain.ErrTransientStorage), time.Millisecond)
	m.CommitFailed("acct-1", inventory.OperationSale, errors.New("disco lleno"), time.Millisecond)

	for _, outcome := range []string{OutcomeRejected, OutcomeStale, OutcomeTransient, OutcomeError} {
		assert.Equal(t, 1.0, counterValue(t, reg, "ledger_commits_total", map[string]string{"operation": "sale", "outcome": outcome}), outcome)
	}
}
