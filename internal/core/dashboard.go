package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

// Overview sections, also the keys of Overview.Errors.
const (
	SectionStats    = "stats"
	SectionLogs     = "recent_logs"
	SectionAlerts   = "alerts"
	SectionMachines = "machines"
	SectionActivity = "activity"
)

// Overview is everything the dashboard page shows. A section that failed to
// load is left empty and its error is reported under Errors.
type Overview struct {
	Stats      *model.DashboardStats  `json:"stats"`
	RecentLogs []model.BackupLog      `json:"recent_logs"`
	Alerts     []model.Alert          `json:"alerts"`
	Machines   []model.Machine        `json:"machines"`
	Activity   []model.ActivityBucket `json:"activity"`
	Errors     map[string]string      `json:"errors,omitempty"`
}

// DashboardService assembles the dashboard from the other services.
type DashboardService struct {
	services    *Services
	granularity backend.Granularity
	days        int
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(services *Services, granularity backend.Granularity, days int) *DashboardService {
	return &DashboardService{services: services, granularity: granularity, days: days}
}

// Overview loads all sections concurrently. Section failures do not cancel
// each other.
func (s *DashboardService) Overview(ctx context.Context, logLimit int) (*Overview, error) {
	if logLimit <= 0 {
		return nil, invalidInput("log limit must be positive, got %d", logLimit)
	}

	var (
		ov Overview
		mu sync.Mutex
		g  errgroup.Group
	)
	fail := func(section string, err error) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("section", section).Msg("dashboard section failed")
		mu.Lock()
		defer mu.Unlock()
		if ov.Errors == nil {
			ov.Errors = make(map[string]string)
		}
		ov.Errors[section] = err.Error()
	}

	g.Go(func() error {
		stats, err := s.services.Stats.Compute(ctx)
		if err != nil {
			fail(SectionStats, err)
			return nil
		}
		ov.Stats = stats
		return nil
	})
	g.Go(func() error {
		logs, err := s.services.BackupLog.ListRecent(ctx, logLimit)
		if err != nil {
			fail(SectionLogs, err)
			return nil
		}
		ov.RecentLogs = logs
		return nil
	})
	g.Go(func() error {
		alerts, err := s.services.Alert.ListUnresolved(ctx)
		if err != nil {
			fail(SectionAlerts, err)
			return nil
		}
		ov.Alerts = alerts
		return nil
	})
	g.Go(func() error {
		machines, err := s.services.Machine.List(ctx)
		if err != nil {
			fail(SectionMachines, err)
			return nil
		}
		ov.Machines = machines
		return nil
	})
	g.Go(func() error {
		activity, err := s.services.Activity.Series(ctx, s.granularity, s.days)
		if err != nil {
			fail(SectionActivity, err)
			return nil
		}
		ov.Activity = activity
		return nil
	})

	_ = g.Wait()
	return &ov, nil
}
