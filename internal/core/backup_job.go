package core

import (
	"context"
	"fmt"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type BackupJobService struct {
	client *backend.Client
}

// NewBackupJobService creates a new BackupJobService.
func NewBackupJobService(client *backend.Client) *BackupJobService {
	return &BackupJobService{client: client}
}

// List returns all backup jobs in the backend's default order.
func (s *BackupJobService) List(ctx context.Context) ([]model.BackupJob, error) {
	if !s.client.Configured() {
		return []model.BackupJob{}, nil
	}

	var jobs []model.BackupJob
	if err := s.client.Store.Select(ctx, backend.Query{Table: backend.TableBackupJobs}, &jobs); err != nil {
		return nil, fmt.Errorf("list backup jobs: %w", err)
	}
	if jobs == nil {
		jobs = []model.BackupJob{}
	}
	return jobs, nil
}
