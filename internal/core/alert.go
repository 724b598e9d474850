package core

import (
	"context"
	"fmt"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type AlertService struct {
	client *backend.Client
}

// NewAlertService creates a new AlertService.
func NewAlertService(client *backend.Client) *AlertService {
	return &AlertService{client: client}
}

// ListUnresolved returns open alerts, newest first.
func (s *AlertService) ListUnresolved(ctx context.Context) ([]model.Alert, error) {
	if !s.client.Configured() {
		return []model.Alert{}, nil
	}

	var rows []model.Alert
	err := s.client.Store.Select(ctx, backend.Query{
		Table:   backend.TableSystemAlerts,
		Filters: []backend.Filter{backend.Eq("is_resolved", false)},
		Order:   []backend.Order{backend.Desc("created_at")},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list unresolved alerts: %w", err)
	}

	alerts := make([]model.Alert, 0, len(rows))
	for _, a := range rows {
		if !a.IsResolved {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}
