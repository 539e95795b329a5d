package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats fuente de estadísticas del pool (pgxpool.Pool).
type PoolStats interface {
	Stat() *pgxpool.Stat
}

// PoolCollector implementa prometheus.Collector para las conexiones del pool de PostgreSQL.
type PoolCollector struct {
	pool PoolStats

	acquired     *prometheus.Desc
	idle         *prometheus.Desc
	total        *prometheus.Desc
	max          *prometheus.Desc
	acquireCount *prometheus.Desc
	emptyAcquire *prometheus.Desc
}

// NewPoolCollector construye el collector.
func NewPoolCollector(pool PoolStats) *PoolCollector {
	return &PoolCollector{
		pool:         pool,
		acquired:     prometheus.NewDesc("db_pool_acquired_connections", "Conexiones en uso", nil, nil),
		idle:         prometheus.NewDesc("db_pool_idle_connections", "Conexiones libres", nil, nil),
		total:        prometheus.NewDesc("db_pool_total_connections", "Conexiones abiertas", nil, nil),
		max:          prometheus.NewDesc("db_pool_max_connections", "Máximo de conexiones", nil, nil),
		acquireCount: prometheus.NewDesc("db_pool_acquire_count_total", "Conexiones adquiridas", nil, nil),
		emptyAcquire: prometheus.NewDesc("db_pool_empty_acquire_count_total", "Adquisiciones que esperaron conexión", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquireCount
	ch <- c.emptyAcquire
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
}
