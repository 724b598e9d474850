package core

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

const (
	DefaultActivityDays = 7
	MaxActivityBuckets  = backend.MaxBuckets
)

type ActivityService struct {
	client *backend.Client
	now    func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(client *backend.Client) *ActivityService {
	return &ActivityService{client: client, now: time.Now}
}

// Series counts backup runs per outcome in contiguous buckets covering the
// last days days, oldest first. The final bucket contains the current time.
// Buckets without runs are present with zero counts.
func (s *ActivityService) Series(ctx context.Context, g backend.Granularity, days int) ([]model.ActivityBucket, error) {
	g, err := backend.ParseGranularity(string(g))
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	if days <= 0 {
		return nil, invalidInput("days must be positive, got %d", days)
	}

	n, ok := g.BucketsFor(days)
	if !ok {
		return nil, invalidInput("%d days of %s buckets exceeds %d buckets", days, g, MaxActivityBuckets)
	}

	step := g.Duration()
	start := g.Truncate(s.now()).Add(-time.Duration(n-1) * step)

	buckets := make([]model.ActivityBucket, n)
	index := make(map[time.Time]int, n)
	for i := range buckets {
		buckets[i].Start = start.Add(time.Duration(i) * step)
		index[buckets[i].Start] = i
	}

	if !s.client.Configured() {
		return buckets, nil
	}

	counts, err := s.client.Store.CountBuckets(ctx, backend.BucketQuery{
		Table:       backend.TableBackupLogs,
		TimeColumn:  "created_at",
		GroupColumn: "status",
		Granularity: g,
		Since:       start,
	})
	if err != nil {
		return nil, fmt.Errorf("backup activity: %w", err)
	}

	for _, c := range counts {
		i, ok := index[g.Truncate(c.Bucket)]
		if !ok {
			continue
		}
		switch c.Group {
		case model.LogStatusSuccess:
			buckets[i].Success += c.Count
		case model.LogStatusFailed:
			buckets[i].Failed += c.Count
		case model.LogStatusWarning:
			buckets[i].Warning += c.Count
		}
	}
	return buckets, nil
}
