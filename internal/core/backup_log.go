package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

// Embed aliases used to resolve a log's machine and job names.
const (
	machineEmbed = "machines"
	jobEmbed     = "backup_jobs"
)

type namedRef struct {
	Name string `json:"name"`
}

// backupLogRow is a backup_logs row with its references embedded.
type backupLogRow struct {
	model.BackupLog
	Machine *namedRef `json:"machines"`
	Job     *namedRef `json:"backup_jobs"`
}

func (r backupLogRow) toModel() model.BackupLog {
	l := r.BackupLog
	l.MachineName = model.UnknownMachineName
	if r.Machine != nil && r.Machine.Name != "" {
		l.MachineName = r.Machine.Name
	}
	l.JobName = model.ManualJobName
	if r.Job != nil && r.Job.Name != "" {
		l.JobName = r.Job.Name
	}
	return l
}

type BackupLogService struct {
	client *backend.Client
}

// NewBackupLogService creates a new BackupLogService.
func NewBackupLogService(client *backend.Client) *BackupLogService {
	return &BackupLogService{client: client}
}

// ListRecent returns up to limit logs, newest first, with machine and job
// names resolved. References that do not resolve get placeholder names.
func (s *BackupLogService) ListRecent(ctx context.Context, limit int) ([]model.BackupLog, error) {
	if limit <= 0 {
		return nil, invalidInput("limit must be positive, got %d", limit)
	}
	if !s.client.Configured() {
		return []model.BackupLog{}, nil
	}

	var rows []backupLogRow
	err := s.client.Store.Select(ctx, backend.Query{
		Table: backend.TableBackupLogs,
		Embeds: []backend.Embed{
			{Alias: machineEmbed, Table: backend.TableMachines, ForeignKey: "machine_id", Columns: []string{"name"}},
			{Alias: jobEmbed, Table: backend.TableBackupJobs, ForeignKey: "job_id", Columns: []string{"name"}},
		},
		Order: []backend.Order{backend.Desc("created_at")},
		Limit: limit,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list recent backup logs: %w", err)
	}

	logs := make([]model.BackupLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.toModel())
	}
	slices.SortStableFunc(logs, func(a, b model.BackupLog) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
