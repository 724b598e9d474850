package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolStat reads one figure from a pool snapshot.
type poolStat struct {
	name string
	help string
	read func(*pgxpool.Stat) float64
}

var poolStats = []poolStat{
	{"pgxpool_acquired_conns", "Number of currently acquired connections in the pool",
		func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
	{"pgxpool_idle_conns", "Number of idle connections in the pool",
		func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
	{"pgxpool_total_conns", "Total number of connections in the pool",
		func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
	{"pgxpool_max_conns", "Maximum number of connections in the pool",
		func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
	{"pgxpool_empty_acquire_total", "Acquires that had to wait for a connection",
		func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }},
}

// RegisterPgxPoolMetrics exposes pgx connection pool statistics of the
// Postgres backend as Prometheus gauges on reg.
func RegisterPgxPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	for _, ps := range poolStats {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        ps.name,
			Help:        ps.help,
			ConstLabels: prometheus.Labels{"backend": "postgres"},
		}, func() float64 {
			return ps.read(pool.Stat())
		})
		if err := reg.Register(gauge); err != nil {
			return err
		}
	}
	return nil
}
