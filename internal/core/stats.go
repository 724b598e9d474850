package core

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type StatsService struct {
	client *backend.Client
}

// NewStatsService creates a new StatsService.
func NewStatsService(client *backend.Client) *StatsService {
	return &StatsService{client: client}
}

// Compute derives the dashboard header figures. The four backend queries run
// concurrently; the first failure cancels the rest.
func (s *StatsService) Compute(ctx context.Context) (*model.DashboardStats, error) {
	if !s.client.Configured() {
		return &model.DashboardStats{TotalDataProtected: FormatDataSize(0)}, nil
	}

	var (
		total, success, activeAlerts int
		protectedMB                  int64
	)
	store := s.client.Store
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := store.Count(ctx, backend.TableBackupLogs)
		if err != nil {
			return fmt.Errorf("count backup logs: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		n, err := store.Count(ctx, backend.TableBackupLogs, backend.Eq("status", model.LogStatusSuccess))
		if err != nil {
			return fmt.Errorf("count successful backups: %w", err)
		}
		success = n
		return nil
	})
	g.Go(func() error {
		n, err := store.Count(ctx, backend.TableSystemAlerts, backend.Eq("is_resolved", false))
		if err != nil {
			return fmt.Errorf("count active alerts: %w", err)
		}
		activeAlerts = n
		return nil
	})
	g.Go(func() error {
		n, err := store.Sum(ctx, backend.TableBackupLogs, "size_mb", backend.Eq("status", model.LogStatusSuccess))
		if err != nil {
			return fmt.Errorf("sum protected data: %w", err)
		}
		protectedMB = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}

	return &model.DashboardStats{
		TotalBackups:         total,
		SuccessRate:          SuccessRate(success, total),
		TotalDataProtected:   FormatDataSize(protectedMB),
		TotalDataProtectedMB: protectedMB,
		ActiveAlerts:         activeAlerts,
	}, nil
}

// SuccessRate returns success/total as a rounded whole percentage, 0 when
// total is 0.
func SuccessRate(success, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(success) / float64(total) * 100))
}

const (
	mbPerGB = 1024
	mbPerTB = 1024 * 1024
)

// FormatDataSize scales a megabyte count to the largest unit it reaches:
// "500 MB", "2.0 GB", "2.0 TB".
func FormatDataSize(mb int64) string {
	switch {
	case mb >= mbPerTB:
		return fmt.Sprintf("%.1f TB", float64(mb)/mbPerTB)
	case mb >= mbPerGB:
		return fmt.Sprintf("%.1f GB", float64(mb)/mbPerGB)
	default:
		return fmt.Sprintf("%d MB", mb)
	}
}
