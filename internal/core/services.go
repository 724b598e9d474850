package core

import (
	"github.com/edvin/backupdash/internal/backend"
)

// Options tune the services that are not fully described by their arguments.
type Options struct {
	// ResetRedirectURL is where password reset links land.
	ResetRedirectURL string
	// ActivityGranularity and ActivityDays shape the dashboard's activity chart.
	ActivityGranularity backend.Granularity
	ActivityDays        int
}

type Services struct {
	Machine   *MachineService
	BackupLog *BackupLogService
	Alert     *AlertService
	Stats     *StatsService
	Profile   *ProfileService
	BackupJob *BackupJobService
	Activity  *ActivityService
	Dashboard *DashboardService
	Auth      *AuthService
}

func NewServices(client *backend.Client, opts Options) *Services {
	if opts.ActivityGranularity == "" {
		opts.ActivityGranularity = backend.GranularityDay
	}
	if opts.ActivityDays <= 0 {
		opts.ActivityDays = DefaultActivityDays
	}

	s := &Services{
		Machine:   NewMachineService(client),
		BackupLog: NewBackupLogService(client),
		Alert:     NewAlertService(client),
		Stats:     NewStatsService(client),
		Profile:   NewProfileService(client),
		BackupJob: NewBackupJobService(client),
		Activity:  NewActivityService(client),
		Auth:      NewAuthService(client, opts.ResetRedirectURL),
	}
	s.Dashboard = NewDashboardService(s, opts.ActivityGranularity, opts.ActivityDays)
	return s
}
