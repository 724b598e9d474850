package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edvin/backupdash/internal/backend"
)

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	backendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_queries_total",
			Help: "Total number of backend queries",
		},
		[]string{"op", "table", "outcome"},
	)

	backendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_query_duration_seconds",
			Help:    "Backend query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// InstrumentBackend returns a copy of c whose store records query metrics.
// Unconfigured clients are returned unchanged.
func InstrumentBackend(c *backend.Client) *backend.Client {
	if !c.Configured() {
		return c
	}
	out := *c
	out.Store = &instrumentedStore{next: c.Store}
	return &out
}

type instrumentedStore struct {
	next backend.Store
}

func (s *instrumentedStore) Select(ctx context.Context, q backend.Query, dest any) error {
	start := time.Now()
	err := s.next.Select(ctx, q, dest)
	record("select", q.Table, start, err)
	return err
}

func (s *instrumentedStore) SelectOne(ctx context.Context, q backend.Query, dest any) error {
	start := time.Now()
	err := s.next.SelectOne(ctx, q, dest)
	record("select_one", q.Table, start, err)
	return err
}

func (s *instrumentedStore) Count(ctx context.Context, table string, filters ...backend.Filter) (int, error) {
	start := time.Now()
	n, err := s.next.Count(ctx, table, filters...)
	record("count", table, start, err)
	return n, err
}

func (s *instrumentedStore) Sum(ctx context.Context, table, column string, filters ...backend.Filter) (int64, error) {
	start := time.Now()
	n, err := s.next.Sum(ctx, table, column, filters...)
	record("sum", table, start, err)
	return n, err
}

func (s *instrumentedStore) CountBuckets(ctx context.Context, q backend.BucketQuery) ([]backend.BucketCount, error) {
	start := time.Now()
	counts, err := s.next.CountBuckets(ctx, q)
	record("count_buckets", q.Table, start, err)
	return counts, err
}

// Ping passes through so readiness checks still reach the wrapped store.
func (s *instrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(backend.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func record(op, table string, start time.Time, err error) {
	backendQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	backendQueriesTotal.WithLabelValues(op, table, Outcome(err)).Inc()
}

// Outcome classifies a query error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, backend.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
